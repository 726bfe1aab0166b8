package main

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build a directory tree from a declarative stage file"
	MsgStageShort      = "Write the stage to disk"
	MsgPlanShort       = "Print the actions staging would perform"
	MsgCheckShort      = "Validate a stage file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgDryRunNotice    = "\nDRY RUN MODE - No changes were made"
	MsgStagedFormat    = "Staged %d specifications into %s\n"
	MsgCheckOKFormat   = "%s is valid: %d targets, %d specifications\n"
	MsgCheckKindFormat = "  %-12s %d\n"
	MsgVersionFormat   = "stager version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten      = "Man pages written to %s\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrInvalidVar  = "invalid variable %q: names must be non-empty and contain no dots"
	MsgErrNoCommand   = "no command specified"
	MsgErrManPages    = "failed to generate man pages: %w"
	MsgErrCompletion  = "failed to generate %s completion: %w"
	MsgErrWriteOutput = "failed to write output: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagRoot     = "Directory the stage is built in"
	MsgFlagBackend  = "How the stage is written (filesystem, synthfs)"
	MsgFlagRollback = "Undo a partial stage when a write fails (synthfs only)"
	MsgFlagVar      = "Template variable as name=value (repeatable)"
	MsgFlagNoColor  = "Disable colored output"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/stage-long.txt
	msgStageLongRaw string
	MsgStageLong    = strings.TrimSpace(msgStageLongRaw)

	//go:embed msgs/stage-example.txt
	msgStageExampleRaw string
	MsgStageExample    = strings.TrimRight(msgStageExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
