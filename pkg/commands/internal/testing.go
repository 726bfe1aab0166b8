package internal

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stager/pkg/testutil"
)

// SampleStage is a stage file exercising every source type. Its sources live
// under the "src" template variable.
const SampleStage = `
[["/usr/bin"]]
type = "SourceFile"
path = "{{.src}}/tool"
symlink = ["t"]

[["/usr/lib"]]
type = "SourceFiles"
path = "{{.src}}/lib"
pattern = ["*.so", "!skip.so"]

[["/opt"]]
type = "Symlink"
target = "/opt/app-{{.version}}"
rename = "app"
`

// WriteSampleTree writes the sources SampleStage refers to and the stage file
// itself, returning the stage file path and the variables to render it with.
func WriteSampleTree(t *testing.T) (string, map[string]string) {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	testutil.CreateFile(t, src, "tool", "#!/bin/sh\n", 0755)
	testutil.WriteTree(t, src, testutil.Tree{
		"lib/libfoo.so":        "foo",
		"lib/nested/libbar.so": "bar",
		"lib/skip.so":          "skip",
		"lib/README":           "docs",
	})
	stageFile := testutil.CreateFile(t, dir, "stage.toml", SampleStage, 0644)

	return stageFile, map[string]string{
		"src":     filepath.ToSlash(src),
		"version": "1.0",
	}
}
