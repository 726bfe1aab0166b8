package stage

import (
	"context"
	"time"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/commands/internal"
	"github.com/arthur-debert/stager/pkg/config"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/spec"
	"github.com/arthur-debert/stager/pkg/stage"
	"github.com/rs/zerolog"
)

// StageOptions holds options for the stage command
type StageOptions struct {
	StageFile string
	Root      string
	Variables map[string]string
	// Backend is config.BackendFilesystem or config.BackendSynthfs.
	Backend  string
	DryRun   bool
	Rollback bool
}

// StageResult describes a staging run. Results is empty for the filesystem
// backend, which writes as it goes.
type StageResult struct {
	Root           string
	Backend        string
	DryRun         bool
	Specifications int
	Results        []actions.Result
	Duration       time.Duration
}

// Stage resolves the stage file and materializes it under Root. A dry run
// reports the planned actions for either backend. The result is returned
// even when staging fails part way, describing what was attempted.
func Stage(ctx context.Context, opts StageOptions) (*StageResult, error) {
	logger := logging.GetLogger("commands.stage")
	logger.Info().
		Str("stage_file", opts.StageFile).
		Str("root", opts.Root).
		Str("backend", opts.Backend).
		Bool("dry_run", opts.DryRun).
		Bool("rollback", opts.Rollback).
		Msg("Staging")

	if opts.Rollback && opts.Backend != config.BackendSynthfs {
		return nil, errors.Newf(errors.ErrInvalidConfiguration,
			"rollback requires the %q backend", config.BackendSynthfs)
	}

	root, err := internal.AbsRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	specs, err := internal.ResolveStageFile(opts.StageFile, opts.Variables)
	if err != nil {
		return nil, err
	}

	result := &StageResult{
		Root:           root,
		Backend:        opts.Backend,
		DryRun:         opts.DryRun,
		Specifications: len(specs),
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if opts.Backend == config.BackendFilesystem && !opts.DryRun {
		err = spec.StageAll(specs, stage.NewFilesystem(root))
		logResult(logger, result, err)
		return result, err
	}

	plan := stage.NewPlan(root)
	if err := spec.StageAll(specs, plan); err != nil {
		return result, err
	}

	executor := actions.NewExecutor(&actions.ExecutorOptions{
		DryRun:   opts.DryRun,
		Rollback: opts.Rollback,
	})
	result.Results, err = plan.Execute(ctx, executor)
	logResult(logger, result, err)
	return result, err
}

func logResult(logger zerolog.Logger, result *StageResult, err error) {
	logger.Info().
		Err(err).
		Str("root", result.Root).
		Int("specifications", result.Specifications).
		Int("actions", len(result.Results)).
		Msg("Staging finished")
}
