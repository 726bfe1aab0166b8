package spec

import (
	"sort"
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/paths"
	"github.com/arthur-debert/stager/pkg/stage"
)

// StageMap maps stage-relative target directories to the rules that populate
// them. Targets are visited in ascending order; rules keep the order they were
// added in.
type StageMap struct {
	targets map[string][]Builder
}

// NewStageMap returns an empty map.
func NewStageMap() *StageMap {
	return &StageMap{targets: make(map[string][]Builder)}
}

// Add appends builders to target. Adding to an existing target extends its
// list.
func (m *StageMap) Add(target string, builders ...Builder) *StageMap {
	if m.targets == nil {
		m.targets = make(map[string][]Builder)
	}
	m.targets[target] = append(m.targets[target], builders...)
	return m
}

// Targets returns the target directories in ascending order.
func (m *StageMap) Targets() []string {
	targets := make([]string, 0, len(m.targets))
	for t := range m.targets {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Sources returns the builders registered for target.
func (m *StageMap) Sources(target string) []Builder {
	return append([]Builder(nil), m.targets[target]...)
}

// Len returns the number of target directories.
func (m *StageMap) Len() int {
	return len(m.targets)
}

// Resolve resolves every rule under the stage-relative root. Each invalid
// target and each failing rule adds to the returned batch; resolution carries
// on past them and only succeeds when nothing failed.
func (m *StageMap) Resolve(root string) ([]Specification, error) {
	logger := logging.GetLogger("spec.stagemap")
	var errs errors.Errors

	if !paths.IsStageRelative(root) {
		errs.Push(errors.Newf(errors.ErrInvalidConfiguration,
			"stage root must be relative: %q", root).WithDetail("root", root))
		return nil, errs.Err()
	}

	var specs []Specification
	for _, target := range m.Targets() {
		if err := checkTarget(target); err != nil {
			errs.Push(err)
			continue
		}

		dir := paths.JoinStage(root, target)
		resolved := errors.Partition(m.targets[target], &errs, func(b Builder) (Specification, error) {
			return b.Resolve(dir)
		})
		specs = append(specs, resolved...)

		logger.Debug().
			Str("target", dir).
			Int("sources", len(m.targets[target])).
			Int("resolved", len(resolved)).
			Msg("Resolved target")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}

// Stage resolves the map and stages the result into target. Nothing is
// staged when resolution fails.
func (m *StageMap) Stage(root string, target stage.Staging) error {
	specs, err := m.Resolve(root)
	if err != nil {
		return err
	}
	return StageAll(specs, target)
}

func checkTarget(target string) *errors.StagingError {
	if strings.HasPrefix(target, "/") {
		return errors.Newf(errors.ErrInvalidConfiguration,
			"target must be relative to the stage root: %q", target).WithDetail("target", target)
	}
	if !paths.IsStageRelative(target) {
		return errors.Newf(errors.ErrInvalidConfiguration,
			"path is outside of staging root: %q", target).WithDetail("target", target)
	}
	return nil
}
