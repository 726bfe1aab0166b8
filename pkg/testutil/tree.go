package testutil

import (
	"os"
	"path"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tree maps slash-separated paths to file contents. A path ending in "/" is
// an empty directory.
type Tree map[string]string

// Paths returns the tree's paths in lexical order.
func (tr Tree) Paths() []string {
	paths := make([]string, 0, len(tr))
	for p := range tr {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteTree writes tr under root on disk. Files are created with mode 0644.
func WriteTree(t *testing.T, root string, tr Tree) {
	t.Helper()

	for _, p := range tr.Paths() {
		if p[len(p)-1] == '/' {
			CreateDir(t, root, p)
			continue
		}
		CreateFile(t, root, p, tr[p], 0644)
	}
}

// MemTree returns an in-memory filesystem holding tr. Paths are taken as
// absolute.
func MemTree(t *testing.T, tr Tree) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	for _, p := range tr.Paths() {
		abs := path.Join("/", p)
		if p[len(p)-1] == '/' {
			require.NoError(t, fs.MkdirAll(abs, 0755), "mkdir %s", abs)
			continue
		}
		require.NoError(t, util.WriteFile(fs, abs, []byte(tr[p]), 0644), "write %s", abs)
	}
	return fs
}

// AssertBillyFile checks that fs holds a regular file at p with the expected
// content.
func AssertBillyFile(t *testing.T, fs billy.Filesystem, p, expected string) {
	t.Helper()

	content, err := util.ReadFile(fs, p)
	require.NoError(t, err, "read %s", p)
	assert.Equal(t, expected, string(content), "content of %s", p)
}

// AssertBillySymlink checks that fs holds a symlink at link with the expected
// content.
func AssertBillySymlink(t *testing.T, fs billy.Filesystem, link, expectedTarget string) {
	t.Helper()

	info, err := fs.Lstat(link)
	require.NoError(t, err, "lstat %s", link)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s is not a symlink", link)

	target, err := fs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, expectedTarget, target, "target of %s", link)
}

// AssertBillyNoFile checks that nothing exists at p in fs.
func AssertBillyNoFile(t *testing.T, fs billy.Filesystem, p string) {
	t.Helper()

	_, err := fs.Lstat(p)
	assert.True(t, os.IsNotExist(err), "%s exists but should not", p)
}
