package check

import (
	"github.com/arthur-debert/stager/pkg/commands/internal"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/spec"
)

// CheckOptions holds options for the check command
type CheckOptions struct {
	StageFile string
	Variables map[string]string
}

// CheckResult summarizes a stage file that resolved cleanly.
type CheckResult struct {
	StageFile string
	Targets   []string
	// Kinds counts specifications by kind ("SourceFile", "SourceFiles",
	// "Symlink").
	Kinds map[string]int
	Total int
}

// Check loads, renders and resolves the stage file without staging anything.
// Every configuration problem is reported in a single error batch.
func Check(opts CheckOptions) (*CheckResult, error) {
	logger := logging.GetLogger("commands.check")
	defer logging.Track(logger, "check")()

	stageMap, err := internal.LoadStageMap(opts.StageFile, opts.Variables)
	if err != nil {
		return nil, err
	}

	specs, err := stageMap.Resolve("")
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		StageFile: opts.StageFile,
		Targets:   stageMap.Targets(),
		Kinds:     map[string]int{},
		Total:     len(specs),
	}
	for _, s := range specs {
		result.Kinds[spec.Kind(s)]++
	}

	logger.Info().
		Int("targets", len(result.Targets)).
		Int("specifications", result.Total).
		Msg("Stage file is valid")
	return result, nil
}
