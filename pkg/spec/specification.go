package spec

import (
	"fmt"
	"path"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/harvest"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/paths"
	"github.com/arthur-debert/stager/pkg/stage"
	"github.com/go-git/go-billy/v5"
)

// Specification is a resolved rule, ready to stage. The set of
// specifications is closed: SourceFile, SourceFiles and Symlink.
type Specification interface {
	// Stage applies the specification to target. A non-nil error is always
	// an *errors.Errors batch.
	Stage(target stage.Staging) error
	isSpecification()
}

// Link is a symlink staged next to a copied file.
type Link struct {
	// Path is the stage-relative location of the link.
	Path string
	// Target is the stage-relative path the link resolves to.
	Target string
}

// SourceFile copies Source to Destination, then creates every link in
// Symlinks.
type SourceFile struct {
	Source      string
	Destination string
	Symlinks    []Link
}

func (SourceFile) isSpecification() {}

// Stage copies the file first. When the copy fails the links are skipped,
// since they would dangle. Link failures are collected so every alias is
// attempted.
func (s SourceFile) Stage(target stage.Staging) error {
	logger := logging.GetLogger("spec.sourcefile")
	var errs errors.Errors

	if err := target.FileFromPath(s.Destination, s.Source); err != nil {
		errs.Extend(err)
		if len(s.Symlinks) > 0 {
			logger.Warn().
				Str("source", s.Source).
				Int("symlinks", len(s.Symlinks)).
				Msg("Copy failed, skipping symlinks")
		}
		return errs.Err()
	}

	for _, link := range s.Symlinks {
		content := paths.RelativeTo(path.Dir(link.Path), link.Target)
		if err := target.SymlinkFile(link.Path, content); err != nil {
			errs.Extend(err)
		}
	}
	return errs.Err()
}

// SourceFiles copies every file under Root selected by Patterns into
// TargetDir. The tree is walked each time Stage runs.
type SourceFiles struct {
	Root        string
	Patterns    []string
	FollowLinks bool
	AllowEmpty  bool
	TargetDir   string
}

func (SourceFiles) isSpecification() {}

// SourceProvider is implemented by staging targets that read copy sources
// from a filesystem other than the OS one.
type SourceProvider interface {
	Sources() billy.Filesystem
}

func (s SourceFiles) Stage(target stage.Staging) error {
	logger := logging.GetLogger("spec.sourcefiles")
	var errs errors.Errors

	var sources billy.Filesystem
	if p, ok := target.(SourceProvider); ok {
		sources = p.Sources()
	}

	h, err := harvest.New(sources, harvest.Options{Patterns: s.Patterns, FollowLinks: s.FollowLinks})
	if err != nil {
		errs.Extend(err)
		return errs.Err()
	}

	empty := true
	walkErr := h.Walk(s.Root, func(m harvest.Match) error {
		empty = false
		if err := target.FileFromPath(paths.JoinStage(s.TargetDir, m.Rel), m.Source); err != nil {
			errs.Extend(err)
		}
		return nil
	})
	if walkErr != nil {
		errs.Extend(walkErr)
		return errs.Err()
	}

	if empty {
		if s.AllowEmpty {
			logger.Info().
				Str("root", s.Root).
				Strs("patterns", s.Patterns).
				Msg("No files found")
		} else {
			errs.Push(errors.Newf(errors.ErrHarvestingFailed,
				"SourceFiles found no files under %q with patterns %q", s.Root, s.Patterns).
				WithDetail("root", s.Root).
				WithDetail("patterns", s.Patterns))
		}
	}
	return errs.Err()
}

// Symlink creates a link at Path with the literal content Target.
type Symlink struct {
	Path   string
	Target string
}

func (Symlink) isSpecification() {}

func (s Symlink) Stage(target stage.Staging) error {
	var errs errors.Errors
	errs.Extend(target.SymlinkFile(s.Path, s.Target))
	return errs.Err()
}

// Kind names the variant of spec.
func Kind(spec Specification) string {
	switch spec.(type) {
	case SourceFile:
		return "SourceFile"
	case SourceFiles:
		return "SourceFiles"
	case Symlink:
		return "Symlink"
	default:
		panic(fmt.Sprintf("unreachable: unknown specification %T", spec))
	}
}

// StageAll stages every specification in order. A failing specification does
// not stop the rest; all failures are returned together.
func StageAll(specs []Specification, target stage.Staging) error {
	logger := logging.GetLogger("spec")
	var errs errors.Errors

	for _, s := range specs {
		if err := s.Stage(target); err != nil {
			logger.Debug().
				Str("kind", Kind(s)).
				Err(err).
				Msg("Specification failed to stage")
			errs.Extend(err)
		}
	}

	logger.Info().
		Int("specifications", len(specs)).
		Int("failures", errs.Len()).
		Msg("Staging finished")
	return errs.Err()
}
