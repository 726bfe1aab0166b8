package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStageMap(t *testing.T) {
	stageFile, vars := WriteSampleTree(t)

	stageMap, err := LoadStageMap(stageFile, vars)
	require.NoError(t, err)
	assert.Equal(t, []string{"opt", "usr/bin", "usr/lib"}, stageMap.Targets())

	specs, err := ResolveStageFile(stageFile, vars)
	require.NoError(t, err)
	assert.Len(t, specs, 3)
}

func TestLoadStageMapMissingVariable(t *testing.T) {
	stageFile, _ := WriteSampleTree(t)

	_, err := LoadStageMap(stageFile, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
}

func TestResolveStageFileAggregates(t *testing.T) {
	stageFile := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(stageFile, []byte(`
/bin:
  - type: SourceFile
    path: relative/tool
  - type: SourceFiles
    path: lib
    pattern: "*.so"
/opt:
  - type: Symlink
    target: /
`), 0644))

	_, err := ResolveStageFile(stageFile, nil)
	require.Error(t, err)

	var batch *errors.Errors
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, 3, batch.Len())
}

func TestAbsRoot(t *testing.T) {
	root, err := AbsRoot("out")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(filepath.FromSlash(root)))

	_, err = AbsRoot("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidConfiguration))
}
