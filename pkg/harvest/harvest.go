// Package harvest enumerates the files under a source root that match a set
// of gitignore-style patterns.
//
// A plain pattern selects paths, a pattern prefixed with "!" deselects them,
// and the last matching pattern wins:
//
//	h, err := harvest.New(fs, harvest.Options{Patterns: []string{"**/*.so", "!**/*.debug.so"}})
//	err = h.Walk("/build/lib", func(m harvest.Match) error { ... })
//
// Directories are never reported. Symlinks are reported as files unless they
// point at a directory; with FollowLinks, linked directories are descended
// into as if they were regular directories.
package harvest

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	// maxLinkHops bounds how many symlinks are chased to resolve one entry.
	maxLinkHops = 40
	// maxDepth bounds directory nesting when following links.
	maxDepth = 256
)

// Options configures a Harvester.
type Options struct {
	Patterns    []string
	FollowLinks bool
}

// Match is one harvested file.
type Match struct {
	// Source is the absolute path of the file on the source filesystem.
	Source string
	// Rel is Source relative to the walk root, using forward slashes.
	Rel string
}

// Harvester walks source trees selecting files by pattern.
type Harvester struct {
	fs       billy.Filesystem
	opts     Options
	selected gitignore.Matcher
	negated  gitignore.Matcher
}

// New compiles the patterns in opts. An empty pattern list and malformed
// patterns fail with ErrHarvestingFailed. A nil fs reads the OS filesystem.
func New(fs billy.Filesystem, opts Options) (*Harvester, error) {
	if len(opts.Patterns) == 0 {
		return nil, errors.New(errors.ErrHarvestingFailed, "no patterns given")
	}
	if fs == nil {
		fs = osfs.New("/")
	}

	var all, negated []gitignore.Pattern
	for _, p := range opts.Patterns {
		body := strings.TrimPrefix(p, "!")
		if strings.TrimSpace(body) == "" {
			return nil, errors.Newf(errors.ErrHarvestingFailed, "empty pattern %q", p).
				WithDetail("pattern", p)
		}
		if _, err := path.Match(strings.TrimPrefix(body, "/"), ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrHarvestingFailed, "invalid pattern %q", p).
				WithDetail("pattern", p)
		}
		all = append(all, gitignore.ParsePattern(p, nil))
		if body != p {
			negated = append(negated, gitignore.ParsePattern(body, nil))
		}
	}

	return &Harvester{
		fs:       fs,
		opts:     opts,
		selected: gitignore.NewMatcher(all),
		negated:  gitignore.NewMatcher(negated),
	}, nil
}

// Selects reports whether the root-relative file path rel is selected.
func (h *Harvester) Selects(rel string) bool {
	return h.selected.Match(splitRel(rel), false)
}

// excludes reports whether a directory was explicitly deselected, in which
// case nothing below it is visited.
func (h *Harvester) excludes(rel string) bool {
	parts := splitRel(rel)
	return h.negated.Match(parts, true) && !h.selected.Match(parts, true)
}

// Walk visits every selected file under root in lexical order, calling fn for
// each. Failures to read the tree are ErrHarvestingFailed. An error returned
// by fn stops the walk and is returned unchanged.
func (h *Harvester) Walk(root string, fn func(Match) error) error {
	logger := logging.GetLogger("harvest")

	info, err := h.fs.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHarvestingFailed, "cannot read source root %q", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrHarvestingFailed, "source root %q is not a directory", root).
			WithDetail("root", root)
	}

	realRoot := root
	if h.opts.FollowLinks {
		if realRoot, err = h.resolve(root); err != nil {
			return err
		}
	}

	w := walk{h: h, root: root, fn: fn}
	logger.Debug().
		Str("root", root).
		Strs("patterns", h.opts.Patterns).
		Bool("followLinks", h.opts.FollowLinks).
		Msg("Walking source tree")
	return w.dir(root, "", []string{realRoot})
}

type walk struct {
	h    *Harvester
	root string
	fn   func(Match) error
}

// dir visits the directory at abs. ancestors holds the resolved paths of
// every directory on the way down and is used to detect link loops.
func (w *walk) dir(abs, rel string, ancestors []string) error {
	if len(ancestors) > maxDepth {
		return errors.Newf(errors.ErrHarvestingFailed, "directory nesting too deep at %q", abs).
			WithDetail("path", abs)
	}

	entries, err := w.h.fs.ReadDir(abs)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHarvestingFailed, "cannot read directory %q", abs).
			WithDetail("path", abs)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		childAbs := path.Join(abs, entry.Name())
		childRel := path.Join(rel, entry.Name())

		isDir := entry.IsDir()
		var resolved string
		if entry.Mode()&os.ModeSymlink != 0 {
			isDir, resolved, err = w.link(childAbs, ancestors[len(ancestors)-1])
			if err != nil {
				return err
			}
		}

		if isDir {
			if w.h.excludes(childRel) {
				continue
			}
			if entry.Mode()&os.ModeSymlink != 0 && !w.h.opts.FollowLinks {
				continue
			}
			if resolved == "" {
				resolved = path.Join(ancestors[len(ancestors)-1], entry.Name())
			}
			if w.h.opts.FollowLinks && isAncestor(ancestors, resolved) {
				return errors.Newf(errors.ErrHarvestingFailed,
					"symlink loop detected at %q", childAbs).WithDetail("path", childAbs)
			}
			if err := w.dir(childAbs, childRel, append(ancestors, resolved)); err != nil {
				return err
			}
			continue
		}

		if !w.h.Selects(childRel) {
			continue
		}
		if err := w.fn(Match{Source: childAbs, Rel: childRel}); err != nil {
			return err
		}
	}
	return nil
}

// link classifies the symlink at abs. Without FollowLinks a dangling link is
// reported as a file; with FollowLinks it is an error.
func (w *walk) link(abs, parentReal string) (bool, string, error) {
	info, err := w.h.fs.Stat(abs)
	if err != nil {
		if w.h.opts.FollowLinks {
			return false, "", errors.Wrapf(err, errors.ErrHarvestingFailed,
				"broken symlink %q", abs).WithDetail("path", abs)
		}
		return false, "", nil
	}
	if !info.IsDir() || !w.h.opts.FollowLinks {
		return info.IsDir(), "", nil
	}

	resolved, err := w.h.resolveFrom(path.Join(parentReal, path.Base(abs)))
	if err != nil {
		return false, "", err
	}
	return true, resolved, nil
}

// resolve returns p with every symlink component chased.
func (h *Harvester) resolve(p string) (string, error) {
	resolved := "/"
	for _, part := range splitRel(strings.TrimPrefix(path.Clean(p), "/")) {
		next, err := h.resolveFrom(path.Join(resolved, part))
		if err != nil {
			return "", err
		}
		resolved = next
	}
	return resolved, nil
}

// resolveFrom chases the link chain starting at p, whose parent is already
// resolved.
func (h *Harvester) resolveFrom(p string) (string, error) {
	for hops := 0; hops < maxLinkHops; hops++ {
		info, err := h.fs.Lstat(p)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrHarvestingFailed, "cannot resolve %q", p).
				WithDetail("path", p)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return p, nil
		}
		target, err := h.fs.Readlink(p)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrHarvestingFailed, "cannot read symlink %q", p).
				WithDetail("path", p)
		}
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(p), target)
		}
		p = path.Clean(target)
	}
	return "", errors.Newf(errors.ErrHarvestingFailed, "too many levels of symbolic links at %q", p).
		WithDetail("path", p)
}

func isAncestor(ancestors []string, dir string) bool {
	for _, a := range ancestors {
		if a == dir {
			return true
		}
	}
	return false
}

func splitRel(rel string) []string {
	var parts []string
	for _, part := range strings.Split(rel, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
