// Package actions holds the primitive filesystem operations a stage is built
// from.
//
// Each action renders as the shell command it stands for, which is what dry
// runs print, and performs itself as a one-operation synthfs pipeline. Larger
// batches go through an Executor so they share one pipeline and can roll
// back together.
package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Action is one primitive staging operation.
type Action interface {
	fmt.Stringer
	// Perform runs the action against the real filesystem.
	Perform(ctx context.Context) error
	// Kind names the action in logs and operation IDs.
	Kind() string
	run(fs filesystem.FileSystem) error
}

// CreateDirectory creates Dir and any missing ancestors. It succeeds when the
// directory already exists.
type CreateDirectory struct {
	Dir string
}

func (a CreateDirectory) String() string { return fmt.Sprintf("mkdir %q", a.Dir) }

func (a CreateDirectory) Kind() string { return "mkdir" }

func (a CreateDirectory) Perform(ctx context.Context) error { return perform(ctx, a) }

func (a CreateDirectory) run(fs filesystem.FileSystem) error {
	if err := fs.MkdirAll(a.Dir, dirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", a.Dir, err)
	}
	return nil
}

// CopyFile copies Source to Destination, creating the destination's parent
// directories and carrying over the source's permission bits.
type CopyFile struct {
	Source      string
	Destination string
}

func (a CopyFile) String() string { return fmt.Sprintf("cp %q %q", a.Source, a.Destination) }

func (a CopyFile) Kind() string { return "copy" }

func (a CopyFile) Perform(ctx context.Context) error { return perform(ctx, a) }

func (a CopyFile) run(fs filesystem.FileSystem) error {
	if err := ensureParent(fs, a.Destination); err != nil {
		return err
	}

	src, err := fs.Open(a.Source)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", a.Source, err)
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read source file %s: %w", a.Source, err)
	}

	mode := fileMode
	if fullFS, ok := fs.(filesystem.FullFileSystem); ok {
		if info, err := fullFS.Stat(a.Source); err == nil {
			mode = info.Mode().Perm()
		}
	}

	if err := fs.WriteFile(a.Destination, content, mode); err != nil {
		return fmt.Errorf("failed to write destination file %s: %w", a.Destination, err)
	}
	return nil
}

// Symlink creates a link at Link whose content is Target. Target is written
// verbatim: it may be relative to the link's directory and may not exist.
type Symlink struct {
	Link   string
	Target string
}

func (a Symlink) String() string { return fmt.Sprintf("ln -s %q %q", a.Target, a.Link) }

func (a Symlink) Kind() string { return "symlink" }

func (a Symlink) Perform(ctx context.Context) error { return perform(ctx, a) }

func (a Symlink) run(fs filesystem.FileSystem) error {
	if err := ensureParent(fs, a.Link); err != nil {
		return err
	}
	if err := fs.Symlink(a.Target, a.Link); err != nil {
		return fmt.Errorf("failed to create symlink %s -> %s: %w", a.Link, a.Target, err)
	}
	return nil
}

// WriteFile writes Content to Path, creating parent directories.
type WriteFile struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

func (a WriteFile) String() string {
	return fmt.Sprintf("write %q (%d bytes)", a.Path, len(a.Content))
}

func (a WriteFile) Kind() string { return "write" }

func (a WriteFile) Perform(ctx context.Context) error { return perform(ctx, a) }

func (a WriteFile) run(fs filesystem.FileSystem) error {
	if err := ensureParent(fs, a.Path); err != nil {
		return err
	}
	mode := a.Mode
	if mode == 0 {
		mode = fileMode
	}
	if err := fs.WriteFile(a.Path, a.Content, mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", a.Path, err)
	}
	return nil
}

func ensureParent(fs filesystem.FileSystem, p string) error {
	dir := filepath.Dir(p)
	if dir == "." || dir == "/" {
		return nil
	}
	if err := fs.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// operation wraps an action as a synthfs custom operation.
func operation(sfs *synthfs.SynthFS, id string, a Action) synthfs.Operation {
	return sfs.CustomOperationWithID(id, func(ctx context.Context, fs filesystem.FileSystem) error {
		return a.run(fs)
	})
}

func perform(ctx context.Context, a Action) error {
	sfs := synthfs.New()
	op := operation(sfs, a.Kind(), a)
	if _, err := synthfs.RunWithOptions(ctx, osFileSystem(), synthfs.DefaultPipelineOptions(), op); err != nil {
		return errors.Wrapf(err, errors.ErrStagingFailed, "%s failed", a).
			WithDetail("action", a.String())
	}
	return nil
}

// osFileSystem returns the real filesystem addressed by absolute paths.
func osFileSystem() filesystem.FullFileSystem {
	osfs := filesystem.NewOSFileSystem("/")
	return hostFS{synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()}
}

// hostFS resolves paths through synthfs but writes symlink content as given.
// The synthfs layers join relative targets onto their root.
type hostFS struct {
	filesystem.FullFileSystem
}

func (hostFS) Symlink(target, link string) error {
	return os.Symlink(target, link)
}

func (hostFS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}
