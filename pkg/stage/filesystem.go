package stage

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Filesystem stages directly into a directory.
type Filesystem struct {
	root    string
	stage   billy.Filesystem
	sources billy.Filesystem
	logger  zerolog.Logger
}

var _ Staging = (*Filesystem)(nil)

// NewFilesystem stages into root on the OS filesystem. A relative root is
// taken relative to the working directory.
func NewFilesystem(root string) *Filesystem {
	if abs, err := filepath.Abs(root); err == nil {
		root = filepath.ToSlash(abs)
	}
	fs := osfs.New("/")
	return NewFilesystemFS(root, fs, fs)
}

// NewFilesystemFS stages into root on stage, reading copy sources from
// sources.
func NewFilesystemFS(root string, stage, sources billy.Filesystem) *Filesystem {
	return &Filesystem{
		root:    root,
		stage:   stage,
		sources: sources,
		logger:  logging.GetLogger("stage.filesystem").With().Str("root", root).Logger(),
	}
}

// Root returns the directory being staged into.
func (f *Filesystem) Root() string {
	return f.root
}

// Sources returns the filesystem copy sources are read from.
func (f *Filesystem) Sources() billy.Filesystem {
	return f.sources
}

func (f *Filesystem) join(rel string, allowRoot bool) (string, error) {
	if err := checkRelative(rel, allowRoot); err != nil {
		return "", err
	}
	return path.Join(f.root, rel), nil
}

func (f *Filesystem) Directory(p string) error {
	target, err := f.join(p, true)
	if err != nil {
		return err
	}
	f.logger.Debug().Str("path", p).Msg("Creating directory")
	if err := f.stage.MkdirAll(target, dirMode); err != nil {
		return failed(err, "failed to create directory %q", target)
	}
	return nil
}

func (f *Filesystem) FileFromPath(dest, src string) error {
	target, err := f.join(dest, false)
	if err != nil {
		return err
	}

	in, err := f.sources.Open(src)
	if err != nil {
		return failed(err, "failed to open source file %q", src)
	}
	defer func() { _ = in.Close() }()

	mode := fileMode
	if info, err := f.sources.Stat(src); err == nil {
		if info.IsDir() {
			return errors.Newf(errors.ErrStagingFailed, "source %q is a directory", src).
				WithDetail("path", src)
		}
		mode = info.Mode().Perm()
	}

	f.logger.Debug().Str("dest", dest).Str("src", src).Msg("Copying file")
	return f.write(target, in, mode)
}

func (f *Filesystem) FileFromReader(dest string, r io.Reader) error {
	target, err := f.join(dest, false)
	if err != nil {
		return err
	}
	f.logger.Debug().Str("dest", dest).Msg("Writing file")
	return f.write(target, r, fileMode)
}

func (f *Filesystem) SymlinkDir(p, target string) error {
	return f.symlink(p, target)
}

func (f *Filesystem) SymlinkFile(p, target string) error {
	return f.symlink(p, target)
}

func (f *Filesystem) symlink(p, target string) error {
	link, err := f.join(p, false)
	if err != nil {
		return err
	}
	if err := f.stage.MkdirAll(path.Dir(link), dirMode); err != nil {
		return failed(err, "failed to create directory %q", path.Dir(link))
	}
	f.logger.Debug().Str("link", p).Str("target", target).Msg("Creating symlink")
	if err := f.stage.Symlink(target, link); err != nil {
		return failed(err, "failed to create symlink %q -> %q", link, target)
	}
	return nil
}

func (f *Filesystem) write(target string, r io.Reader, mode os.FileMode) error {
	if err := f.stage.MkdirAll(path.Dir(target), dirMode); err != nil {
		return failed(err, "failed to create directory %q", path.Dir(target))
	}

	out, err := f.stage.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return failed(err, "failed to create file %q", target)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return failed(err, "failed to write file %q", target)
	}
	if err := out.Close(); err != nil {
		return failed(err, "failed to write file %q", target)
	}
	return nil
}

func failed(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, errors.ErrStagingFailed, format, args...)
}
