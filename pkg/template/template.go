// Package template renders the template strings found in stage files.
//
// Stage keys and source fields may reference variables with Go template
// syntax, for example "/opt/{{.name}}/bin". Rendering is strict: a reference
// to a variable that is not in the Context fails instead of producing an
// empty string.
package template

import (
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
)

// Renderer expands a template string into its final form.
type Renderer interface {
	Render(tmpl string) (string, error)
}

// Context holds the variables available to templates.
type Context map[string]any

// DefaultContext returns a Context seeded from the environment of the
// current process.
func DefaultContext() Context {
	ctx := Context{
		"HOME":  os.Getenv("HOME"),
		"USER":  os.Getenv("USER"),
		"SHELL": os.Getenv("SHELL"),
	}
	hostname, _ := os.Hostname()
	ctx["HOSTNAME"] = hostname
	return ctx
}

// With returns a copy of c with the given variables layered on top.
func (c Context) With(vars map[string]string) Context {
	merged := make(Context, len(c)+len(vars))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}

// Keys returns the variable names in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Engine is a Renderer backed by text/template over an explicit Context.
type Engine struct {
	vars  Context
	funcs template.FuncMap
}

var _ Renderer = (*Engine)(nil)

// NewEngine creates an engine rendering against vars. A nil Context renders
// plain strings only.
func NewEngine(vars Context) *Engine {
	if vars == nil {
		vars = Context{}
	}
	return &Engine{
		vars: vars,
		funcs: template.FuncMap{
			"env":        os.Getenv,
			"lower":      strings.ToLower,
			"upper":      strings.ToUpper,
			"trimSuffix": func(suffix, s string) string { return strings.TrimSuffix(s, suffix) },
			"trimPrefix": func(prefix, s string) string { return strings.TrimPrefix(s, prefix) },
		},
	}
}

// Context returns the variables the engine renders against.
func (e *Engine) Context() Context {
	return e.vars
}

// Render expands tmpl. Strings without template actions are returned as is.
// Parse and execution failures are ErrInvalidConfiguration.
func (e *Engine) Render(tmpl string) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	logger := logging.GetLogger("template")

	t, err := template.New("stage").
		Option("missingkey=error").
		Funcs(e.funcs).
		Parse(tmpl)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"invalid template %q", tmpl).WithDetail("template", tmpl)
	}

	var out strings.Builder
	if err := t.Execute(&out, map[string]any(e.vars)); err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"failed to render template %q", tmpl).WithDetail("template", tmpl)
	}

	logger.Trace().
		Str("template", tmpl).
		Str("rendered", out.String()).
		Msg("Rendered template")

	return out.String(), nil
}
