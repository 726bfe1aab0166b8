package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateFile creates a file with the given content and mode under dir,
// creating parent directories as needed. It returns the file's path.
func CreateFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "create parent of %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), mode), "create file %s", path)
	return path
}

// CreateDir creates a directory under parent and returns its path.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(path, 0755), "create directory %s", path)
	return path
}

// CreateSymlink creates a symbolic link at link pointing to target.
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755), "create parent of %s", link)
	require.NoError(t, os.Symlink(target, link), "create symlink %s -> %s", link, target)
}

// AssertFileContent checks that a regular file exists at path with the
// expected content.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	assert.Equal(t, expected, string(content), "content of %s", path)
}

// AssertSymlink checks that link is a symbolic link with the expected
// content.
func AssertSymlink(t *testing.T, link, expectedTarget string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err, "lstat %s", link)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s is not a symlink", link)

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, expectedTarget, target, "target of %s", link)
}

// AssertNoFile checks that nothing, not even a dangling symlink, exists at
// path.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s exists but should not", path)
}
