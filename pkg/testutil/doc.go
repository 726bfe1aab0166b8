// Package testutil provides filesystem fixtures for stager tests.
//
// Key components:
//   - CreateFile, CreateSymlink and friends: real files under t.TempDir()
//   - Tree: a declarative set of files written to disk (WriteTree) or to a
//     go-billy in-memory filesystem (MemTree)
//   - AssertFileContent, AssertSymlink, AssertNoFile: checks for staged
//     output, on disk or in a billy filesystem
//
// Usage guidelines:
//   - Prefer MemTree for staging logic; use WriteTree where symlinks or file
//     modes on a real filesystem matter
//   - All test data should be defined inline, not in external files
package testutil
