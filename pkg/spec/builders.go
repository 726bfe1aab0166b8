package spec

import (
	"path/filepath"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/paths"
)

// Builder is a declarative staging rule. The set of builders is closed:
// SourceFileBuilder, SourceFilesBuilder and SymlinkBuilder.
type Builder interface {
	// Resolve validates the rule and places it under the stage-relative
	// targetDir. A non-nil error is always an *errors.Errors batch.
	Resolve(targetDir string) (Specification, error)
	isBuilder()
}

// SourceFileBuilder copies one file into the target directory, optionally
// renamed, with extra symlinks to the copy.
type SourceFileBuilder struct {
	// Path is the absolute path of the file to copy.
	Path string
	// Rename overrides the copy's filename. Default is the source filename.
	Rename *string
	// Symlinks are link names created next to the copy, pointing at it.
	Symlinks []string
}

func (SourceFileBuilder) isBuilder() {}

// WithRename returns a copy of b with the given rename.
func (b SourceFileBuilder) WithRename(name string) SourceFileBuilder {
	b.Rename = &name
	return b
}

// WithSymlinks returns a copy of b with aliases appended.
func (b SourceFileBuilder) WithSymlinks(aliases ...string) SourceFileBuilder {
	b.Symlinks = append(append([]string(nil), b.Symlinks...), aliases...)
	return b
}

func (b SourceFileBuilder) Resolve(targetDir string) (Specification, error) {
	var errs errors.Errors

	if !filepath.IsAbs(b.Path) {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"SourceFile path must be absolute: %q", b.Path).WithDetail("path", b.Path))
		return nil, errs.Err()
	}

	name, ok := paths.FileName(b.Path)
	if b.Rename != nil {
		name, ok = *b.Rename, true
	}
	if !ok {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"SourceFile is missing a filename: %q", b.Path).WithDetail("path", b.Path))
		return nil, errs.Err()
	}
	if !paths.IsSingleComponent(name) {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"SourceFile rename must not change directories: %q", name).WithDetail("rename", name))
	}
	for _, alias := range b.Symlinks {
		if !paths.IsSingleComponent(alias) {
			errs.Push(errors.Newf(errors.ErrHarvestingFailed,
				"SourceFile symlink must not change directories: %q", alias).WithDetail("symlink", alias))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	dest := paths.JoinStage(targetDir, name)
	links := make([]Link, 0, len(b.Symlinks))
	for _, alias := range b.Symlinks {
		links = append(links, Link{Path: paths.JoinStage(targetDir, alias), Target: dest})
	}

	return SourceFile{Source: b.Path, Destination: dest, Symlinks: links}, nil
}

// SourceFilesBuilder copies every file under Path selected by Patterns into
// the target directory, keeping their layout relative to Path.
type SourceFilesBuilder struct {
	// Path is the absolute root the patterns are matched under.
	Path string
	// Patterns are gitignore-style patterns; "!" deselects.
	Patterns []string
	// FollowLinks descends into symlinked directories.
	FollowLinks bool
	// AllowEmpty accepts a pattern set that matches nothing.
	AllowEmpty bool
}

func (SourceFilesBuilder) isBuilder() {}

func (b SourceFilesBuilder) Resolve(targetDir string) (Specification, error) {
	var errs errors.Errors

	if !filepath.IsAbs(b.Path) {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"SourceFiles path must be absolute: %q", b.Path).WithDetail("path", b.Path))
	}
	if len(b.Patterns) == 0 {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"SourceFiles needs at least one pattern: %q", b.Path).WithDetail("path", b.Path))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return SourceFiles{
		Root:        b.Path,
		Patterns:    append([]string(nil), b.Patterns...),
		FollowLinks: b.FollowLinks,
		AllowEmpty:  b.AllowEmpty,
		TargetDir:   targetDir,
	}, nil
}

// SymlinkBuilder creates one symlink in the target directory. Target is
// written verbatim: it need not exist and need not be absolute.
type SymlinkBuilder struct {
	Target string
	// Rename overrides the link's filename. Default is the target's
	// filename.
	Rename *string
}

func (SymlinkBuilder) isBuilder() {}

// WithRename returns a copy of b with the given rename.
func (b SymlinkBuilder) WithRename(name string) SymlinkBuilder {
	b.Rename = &name
	return b
}

func (b SymlinkBuilder) Resolve(targetDir string) (Specification, error) {
	var errs errors.Errors

	name, ok := paths.FileName(b.Target)
	if b.Rename != nil {
		name, ok = *b.Rename, true
	}
	if !ok {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"Symlink target has no file name: %s", b.Target).WithDetail("target", b.Target))
		return nil, errs.Err()
	}
	if !paths.IsSingleComponent(name) {
		errs.Push(errors.Newf(errors.ErrHarvestingFailed,
			"Symlink rename must not change directories: %q", name).WithDetail("rename", name))
		return nil, errs.Err()
	}

	return Symlink{Path: paths.JoinStage(targetDir, name), Target: b.Target}, nil
}
