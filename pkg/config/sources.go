package config

import (
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/spec"
	"github.com/arthur-debert/stager/pkg/template"
)

// Source types as written in the "type" field of a stage file entry.
const (
	TypeSourceFile  = "SourceFile"
	TypeSourceFiles = "SourceFiles"
	TypeSymlink     = "Symlink"
)

// Source is one entry of a stage file. The set is closed: SourceFile,
// SourceFiles and Symlink.
type Source interface {
	// Type returns the entry's "type" tag.
	Type() string
	// Render expands every template field and returns the matching
	// builder. A non-nil error is always an *errors.Errors batch.
	Render(engine template.Renderer) (spec.Builder, error)
	isSource()
}

// SourceFile copies a single file.
type SourceFile struct {
	Path    string   `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Rename  *string  `mapstructure:"rename" json:"rename,omitempty" yaml:"rename,omitempty" toml:"rename,omitempty"`
	Symlink []string `mapstructure:"symlink" json:"symlink,omitempty" yaml:"symlink,omitempty" toml:"symlink,omitempty"`
}

// SourceFiles copies the files under a root selected by patterns.
type SourceFiles struct {
	Path        string   `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Pattern     []string `mapstructure:"pattern" json:"pattern" yaml:"pattern" toml:"pattern"`
	FollowLinks bool     `mapstructure:"follow_links" json:"follow_links,omitempty" yaml:"follow_links,omitempty" toml:"follow_links,omitempty"`
	AllowEmpty  bool     `mapstructure:"allow_empty" json:"allow_empty,omitempty" yaml:"allow_empty,omitempty" toml:"allow_empty,omitempty"`
}

// Symlink creates a link to a literal target.
type Symlink struct {
	Target string  `mapstructure:"target" json:"target" yaml:"target" toml:"target"`
	Rename *string `mapstructure:"rename" json:"rename,omitempty" yaml:"rename,omitempty" toml:"rename,omitempty"`
}

func (SourceFile) isSource()  {}
func (SourceFiles) isSource() {}
func (Symlink) isSource()     {}

func (SourceFile) Type() string  { return TypeSourceFile }
func (SourceFiles) Type() string { return TypeSourceFiles }
func (Symlink) Type() string     { return TypeSymlink }

func (s SourceFile) Render(engine template.Renderer) (spec.Builder, error) {
	r := renderer{engine: engine}
	b := spec.SourceFileBuilder{
		Path:     r.field("path", s.Path),
		Rename:   r.optional("rename", s.Rename),
		Symlinks: r.list("symlink", s.Symlink),
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s SourceFiles) Render(engine template.Renderer) (spec.Builder, error) {
	r := renderer{engine: engine}
	b := spec.SourceFilesBuilder{
		Path:        r.field("path", s.Path),
		Patterns:    r.list("pattern", s.Pattern),
		FollowLinks: s.FollowLinks,
		AllowEmpty:  s.AllowEmpty,
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s Symlink) Render(engine template.Renderer) (spec.Builder, error) {
	r := renderer{engine: engine}
	b := spec.SymlinkBuilder{
		Target: r.field("target", s.Target),
		Rename: r.optional("rename", s.Rename),
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// renderer expands fields one by one, collecting every failure.
type renderer struct {
	engine template.Renderer
	errs   errors.Errors
}

func (r *renderer) field(name, tmpl string) string {
	out, err := r.engine.Render(tmpl)
	if err != nil {
		r.errs.Push(errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"cannot render field %q", name).WithDetail("field", name))
		return ""
	}
	return out
}

func (r *renderer) optional(name string, tmpl *string) *string {
	if tmpl == nil {
		return nil
	}
	out := r.field(name, *tmpl)
	return &out
}

func (r *renderer) list(name string, tmpls []string) []string {
	if len(tmpls) == 0 {
		return nil
	}
	out := make([]string, len(tmpls))
	for i, t := range tmpls {
		out[i] = r.field(name, t)
	}
	return out
}
