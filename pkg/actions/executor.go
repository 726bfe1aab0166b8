package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Status is the outcome of one action in an executed batch.
type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPlanned Status = "planned"
)

// Result reports what happened to one action.
type Result struct {
	Action   Action
	Status   Status
	Error    error
	Duration time.Duration
}

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	// DryRun logs the actions and reports them as planned without touching
	// the filesystem.
	DryRun bool
	// Rollback undoes completed operations when a later one fails.
	Rollback bool
	// FileSystem overrides the OS filesystem.
	FileSystem filesystem.FullFileSystem
}

// Executor runs a batch of actions as a single synthfs pipeline.
type Executor struct {
	logger     zerolog.Logger
	dryRun     bool
	rollback   bool
	filesystem filesystem.FullFileSystem
}

// NewExecutor creates an executor. A nil opts uses the defaults.
func NewExecutor(opts *ExecutorOptions) *Executor {
	if opts == nil {
		opts = &ExecutorOptions{}
	}
	fs := opts.FileSystem
	if fs == nil {
		fs = osFileSystem()
	}
	return &Executor{
		logger:     logging.GetLogger("actions.executor"),
		dryRun:     opts.DryRun,
		rollback:   opts.Rollback,
		filesystem: fs,
	}
}

// Execute runs actions in order and returns one Result per action, in the
// same order. The error is ErrStagingFailed when any action failed.
func (e *Executor) Execute(ctx context.Context, actions []Action) ([]Result, error) {
	if len(actions) == 0 {
		return []Result{}, nil
	}

	if e.dryRun {
		return e.executeDryRun(actions), nil
	}

	e.logger.Info().Int("actionCount", len(actions)).Msg("Executing actions")

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(actions))
	index := make(map[synthfs.OperationID]int, len(actions))
	for i, action := range actions {
		op := operation(sfs, fmt.Sprintf("%s_%d", action.Kind(), i), action)
		ops = append(ops, op)
		index[op.ID()] = i
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = e.rollback

	e.logger.Debug().
		Int("operationCount", len(ops)).
		Bool("rollbackEnabled", e.rollback).
		Msg("Running synthfs pipeline")

	result, err := synthfs.RunWithOptions(ctx, e.filesystem, options, ops...)
	results := e.convertResults(actions, result, index)

	if err != nil {
		return results, errors.Wrap(err, errors.ErrStagingFailed, "failed to perform actions")
	}

	e.logger.Info().Msg("All actions performed successfully")
	return results, nil
}

func (e *Executor) executeDryRun(actions []Action) []Result {
	e.logger.Info().Msg("Dry run mode - actions would be performed:")
	results := make([]Result, len(actions))
	for i, action := range actions {
		e.logger.Info().
			Str("kind", action.Kind()).
			Str("action", action.String()).
			Msg("Would perform action")
		results[i] = Result{Action: action, Status: StatusPlanned}
	}
	return results
}

// convertResults maps synthfs operation results back onto actions. Actions
// the pipeline never reached are reported as skipped.
func (e *Executor) convertResults(actions []Action, result *synthfs.Result, index map[synthfs.OperationID]int) []Result {
	results := make([]Result, len(actions))
	for i, action := range actions {
		results[i] = Result{Action: action, Status: StatusSkipped}
	}
	if result == nil {
		return results
	}

	for _, opResult := range result.GetOperations() {
		synthfsResult, ok := opResult.(synthfs.OperationResult)
		if !ok {
			continue
		}
		i, exists := index[synthfsResult.OperationID]
		if !exists {
			e.logger.Warn().
				Str("operationID", string(synthfsResult.OperationID)).
				Msg("Could not find action for synthfs result")
			continue
		}

		status := StatusFailed
		if synthfsResult.Status == synthfs.StatusSuccess {
			status = StatusDone
		}
		results[i].Status = status
		results[i].Duration = synthfsResult.Duration
		if synthfsResult.Error != nil {
			results[i].Error = errors.Wrapf(synthfsResult.Error, errors.ErrStagingFailed,
				"%s failed", actions[i]).WithDetail("action", actions[i].String())
		}
	}
	return results
}
