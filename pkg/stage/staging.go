// Package stage defines the sink a resolved specification is staged into and
// its two implementations.
//
// Filesystem writes straight to a directory through go-billy. Plan records the
// equivalent actions instead, for previews and for batched execution through
// actions.Executor.
//
// Every path handed to a Staging is stage-relative with forward slashes. Link
// targets are written verbatim.
package stage

import (
	"io"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/paths"
)

// Staging builds up a staged directory tree. Every error returned is a
// *errors.StagingError with code ErrStagingFailed.
type Staging interface {
	// Directory creates a directory and its ancestors.
	Directory(path string) error
	// FileFromPath copies the file at src into the stage at dest.
	FileFromPath(dest, src string) error
	// FileFromReader streams r into the stage at dest.
	FileFromReader(dest string, r io.Reader) error
	// SymlinkDir creates a link at path pointing at a directory.
	SymlinkDir(path, target string) error
	// SymlinkFile creates a link at path pointing at a file.
	SymlinkFile(path, target string) error
}

// checkRelative rejects paths that are not stage-relative. The stage root
// itself ("") is only accepted when allowRoot is set.
func checkRelative(rel string, allowRoot bool) error {
	if rel == "" {
		if allowRoot {
			return nil
		}
		return errors.New(errors.ErrStagingFailed, "path is empty")
	}
	if !paths.IsStageRelative(rel) {
		return errors.Newf(errors.ErrStagingFailed, "path %q is not inside the stage", rel).
			WithDetail("path", rel)
	}
	if err := paths.ValidatePath(rel); err != nil {
		return errors.Wrapf(err, errors.ErrStagingFailed, "invalid stage path %q", rel).
			WithDetail("path", rel)
	}
	return nil
}
