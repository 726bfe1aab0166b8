package stage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/errors"
)

// Plan records staging requests as actions rooted at a directory, without
// touching the filesystem.
type Plan struct {
	root    string
	actions []actions.Action
}

var _ Staging = (*Plan)(nil)

// NewPlan creates an empty plan for root. An empty root records
// stage-relative paths as they are.
func NewPlan(root string) *Plan {
	return &Plan{root: root}
}

func (p *Plan) join(rel string, allowRoot bool) (string, error) {
	if err := checkRelative(rel, allowRoot); err != nil {
		return "", err
	}
	if p.root == "" {
		return rel, nil
	}
	return path.Join(p.root, rel), nil
}

func (p *Plan) Directory(dir string) error {
	target, err := p.join(dir, true)
	if err != nil {
		return err
	}
	p.actions = append(p.actions, actions.CreateDirectory{Dir: target})
	return nil
}

func (p *Plan) FileFromPath(dest, src string) error {
	target, err := p.join(dest, false)
	if err != nil {
		return err
	}
	p.actions = append(p.actions, actions.CopyFile{Source: src, Destination: target})
	return nil
}

func (p *Plan) FileFromReader(dest string, r io.Reader) error {
	target, err := p.join(dest, false)
	if err != nil {
		return err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStagingFailed, "failed to read content for %q", dest)
	}
	p.actions = append(p.actions, actions.WriteFile{Path: target, Content: content})
	return nil
}

func (p *Plan) SymlinkDir(link, target string) error {
	return p.SymlinkFile(link, target)
}

func (p *Plan) SymlinkFile(link, target string) error {
	at, err := p.join(link, false)
	if err != nil {
		return err
	}
	p.actions = append(p.actions, actions.Symlink{Link: at, Target: target})
	return nil
}

// Actions returns the recorded actions in staging order.
func (p *Plan) Actions() []actions.Action {
	return append([]actions.Action(nil), p.actions...)
}

// Len returns the number of recorded actions.
func (p *Plan) Len() int {
	return len(p.actions)
}

// Lines renders every recorded action, one per line.
func (p *Plan) Lines() []string {
	lines := make([]string, len(p.actions))
	for i, a := range p.actions {
		lines[i] = a.String()
	}
	return lines
}

// String renders the plan as a shell-like script.
func (p *Plan) String() string {
	return strings.Join(p.Lines(), "\n")
}

// WriteTo writes the rendered plan to w.
func (p *Plan) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range p.Lines() {
		n, err := fmt.Fprintln(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Execute performs the recorded actions with executor.
func (p *Plan) Execute(ctx context.Context, executor *actions.Executor) ([]actions.Result, error) {
	return executor.Execute(ctx, p.Actions())
}
