package plan

import (
	"github.com/arthur-debert/stager/pkg/commands/internal"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/spec"
	"github.com/arthur-debert/stager/pkg/stage"
)

// PlanOptions holds options for the plan command
type PlanOptions struct {
	StageFile string
	Root      string
	Variables map[string]string
}

// Plan resolves the stage file and records the actions staging it into Root
// would perform. Nothing is written.
func Plan(opts PlanOptions) (*stage.Plan, error) {
	logger := logging.GetLogger("commands.plan")
	logger.Info().
		Str("stage_file", opts.StageFile).
		Str("root", opts.Root).
		Msg("Planning stage")
	defer logging.Track(logger, "plan")()

	root, err := internal.AbsRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	specs, err := internal.ResolveStageFile(opts.StageFile, opts.Variables)
	if err != nil {
		return nil, err
	}

	plan := stage.NewPlan(root)
	if err := spec.StageAll(specs, plan); err != nil {
		return plan, err
	}

	logger.Info().
		Int("specifications", len(specs)).
		Int("actions", plan.Len()).
		Msg("Plan complete")
	return plan, nil
}
