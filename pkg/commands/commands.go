// Package commands provides the high-level operations behind the stager CLI.
//
// Each command lives in its own subdirectory:
//   - stage/ - resolve a stage file and write the stage
//   - plan/  - record the actions a stage would perform
//   - check/ - validate a stage file without touching the filesystem
//   - internal/ - shared loading of stage files
//
// This file re-exports the command functions so callers only import one
// package.
package commands

import (
	"context"

	"github.com/arthur-debert/stager/pkg/commands/check"
	"github.com/arthur-debert/stager/pkg/commands/plan"
	"github.com/arthur-debert/stager/pkg/commands/stage"
	stagepkg "github.com/arthur-debert/stager/pkg/stage"
)

// Stage materializes a stage file.
type StageOptions = stage.StageOptions
type StageResult = stage.StageResult

func Stage(ctx context.Context, opts StageOptions) (*StageResult, error) {
	return stage.Stage(ctx, opts)
}

// Plan records the actions a stage file would perform.
type PlanOptions = plan.PlanOptions

func Plan(opts PlanOptions) (*stagepkg.Plan, error) {
	return plan.Plan(opts)
}

// Check validates a stage file.
type CheckOptions = check.CheckOptions
type CheckResult = check.CheckResult

func Check(opts CheckOptions) (*CheckResult, error) {
	return check.Check(opts)
}
