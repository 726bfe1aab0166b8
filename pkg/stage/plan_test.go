package stage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRecordsInOrder(t *testing.T) {
	plan := NewPlan("/stage")

	require.NoError(t, plan.Directory("usr/share"))
	require.NoError(t, plan.FileFromPath("usr/bin/tool", "/src/tool"))
	require.NoError(t, plan.SymlinkFile("usr/bin/t", "tool"))
	require.NoError(t, plan.FileFromReader("etc/VERSION", strings.NewReader("1.0")))

	assert.Equal(t, []string{
		`mkdir "/stage/usr/share"`,
		`cp "/src/tool" "/stage/usr/bin/tool"`,
		`ln -s "tool" "/stage/usr/bin/t"`,
		`write "/stage/etc/VERSION" (3 bytes)`,
	}, plan.Lines())
	assert.Equal(t, 4, plan.Len())

	var buf bytes.Buffer
	_, err := plan.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, plan.String()+"\n", buf.String())
}

func TestPlanWithoutRoot(t *testing.T) {
	plan := NewPlan("")
	require.NoError(t, plan.SymlinkFile("bin/app", "/opt/app"))

	require.Len(t, plan.Actions(), 1)
	assert.Equal(t, actions.Symlink{Link: "bin/app", Target: "/opt/app"}, plan.Actions()[0])
}

func TestPlanRejectsEscapes(t *testing.T) {
	plan := NewPlan("/stage")

	err := plan.FileFromPath("../evil", "/src/tool")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStagingFailed))
	assert.Zero(t, plan.Len())
}

func TestPlanExecute(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool")
	require.NoError(t, os.WriteFile(src, []byte("tool"), 0644))

	root := filepath.Join(tmp, "stage")
	plan := NewPlan(root)
	require.NoError(t, plan.FileFromPath("bin/tool", src))
	require.NoError(t, plan.SymlinkFile("bin/t", "tool"))

	results, err := plan.Execute(context.Background(), actions.NewExecutor(nil))
	require.NoError(t, err)
	require.Len(t, results, 2)

	content, err := os.ReadFile(filepath.Join(root, "bin", "t"))
	require.NoError(t, err)
	assert.Equal(t, "tool", string(content))
}
