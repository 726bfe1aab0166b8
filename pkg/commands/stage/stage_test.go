package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/commands/internal"
	"github.com/arthur-debert/stager/pkg/config"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStaged(t *testing.T, root string) {
	t.Helper()

	testutil.AssertFileContent(t, filepath.Join(root, "usr/bin/tool"), "#!/bin/sh\n")
	info, err := os.Stat(filepath.Join(root, "usr/bin/tool"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	testutil.AssertSymlink(t, filepath.Join(root, "usr/bin/t"), "tool")
	testutil.AssertFileContent(t, filepath.Join(root, "usr/bin/t"), "#!/bin/sh\n")

	testutil.AssertFileContent(t, filepath.Join(root, "usr/lib/libfoo.so"), "foo")
	testutil.AssertFileContent(t, filepath.Join(root, "usr/lib/nested/libbar.so"), "bar")
	testutil.AssertNoFile(t, filepath.Join(root, "usr/lib/skip.so"))
	testutil.AssertNoFile(t, filepath.Join(root, "usr/lib/README"))

	testutil.AssertSymlink(t, filepath.Join(root, "opt/app"), "/opt/app-1.0")
}

func TestStageBackends(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		rollback    bool
		wantResults int
	}{
		{name: "filesystem", backend: config.BackendFilesystem},
		{name: "synthfs", backend: config.BackendSynthfs, wantResults: 5},
		{name: "synthfs with rollback", backend: config.BackendSynthfs, rollback: true, wantResults: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stageFile, vars := internal.WriteSampleTree(t)
			root := filepath.Join(t.TempDir(), "stage")

			result, err := Stage(context.Background(), StageOptions{
				StageFile: stageFile,
				Root:      root,
				Variables: vars,
				Backend:   tt.backend,
				Rollback:  tt.rollback,
			})
			require.NoError(t, err)

			assert.Equal(t, 3, result.Specifications)
			assert.Equal(t, filepath.ToSlash(root), result.Root)
			require.Len(t, result.Results, tt.wantResults)
			for _, r := range result.Results {
				assert.Equal(t, actions.StatusDone, r.Status, r.Action.String())
			}
			assertStaged(t, root)
		})
	}
}

func TestStageDryRun(t *testing.T) {
	for _, backend := range []string{config.BackendFilesystem, config.BackendSynthfs} {
		t.Run(backend, func(t *testing.T) {
			stageFile, vars := internal.WriteSampleTree(t)
			root := filepath.Join(t.TempDir(), "stage")

			result, err := Stage(context.Background(), StageOptions{
				StageFile: stageFile,
				Root:      root,
				Variables: vars,
				Backend:   backend,
				DryRun:    true,
			})
			require.NoError(t, err)

			require.Len(t, result.Results, 5)
			for _, r := range result.Results {
				assert.Equal(t, actions.StatusPlanned, r.Status)
			}
			assert.NoDirExists(t, root)
		})
	}
}

func TestStageRollbackRequiresSynthfs(t *testing.T) {
	stageFile, vars := internal.WriteSampleTree(t)

	_, err := Stage(context.Background(), StageOptions{
		StageFile: stageFile,
		Root:      t.TempDir(),
		Variables: vars,
		Backend:   config.BackendFilesystem,
		Rollback:  true,
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
}

func TestStageInvalidConfigurationWritesNothing(t *testing.T) {
	stageFile, _ := internal.WriteSampleTree(t)
	root := filepath.Join(t.TempDir(), "stage")

	_, err := Stage(context.Background(), StageOptions{
		StageFile: stageFile,
		Root:      root,
		Backend:   config.BackendFilesystem,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
	assert.NoDirExists(t, root)
}

func TestStageMissingSourceAggregates(t *testing.T) {
	stageFile, vars := internal.WriteSampleTree(t)
	require.NoError(t, os.Remove(filepath.Join(vars["src"], "tool")))
	root := filepath.Join(t.TempDir(), "stage")

	result, err := Stage(context.Background(), StageOptions{
		StageFile: stageFile,
		Root:      root,
		Variables: vars,
		Backend:   config.BackendFilesystem,
	})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStagingFailed))

	// The other specifications are still staged.
	testutil.AssertFileContent(t, filepath.Join(root, "usr/lib/libfoo.so"), "foo")
	testutil.AssertSymlink(t, filepath.Join(root, "opt/app"), "/opt/app-1.0")
	testutil.AssertNoFile(t, filepath.Join(root, "usr/bin/t"))
}
