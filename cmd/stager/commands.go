package main

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/stager/internal/version"
	"github.com/arthur-debert/stager/pkg/commands"
	"github.com/arthur-debert/stager/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newStageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "stage [stage-file]",
		Short:   MsgStageShort,
		Long:    MsgStageLong,
		Example: MsgStageExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, opts, args)
			if err != nil {
				return err
			}

			log.Info().
				Str("stage_file", s.stageFile).
				Str("root", s.root).
				Bool("dry_run", s.cfg.DryRun).
				Msg("Staging")

			result, err := commands.Stage(cmd.Context(), commands.StageOptions{
				StageFile: s.stageFile,
				Root:      s.root,
				Variables: s.cfg.Variables,
				Backend:   s.cfg.Backend,
				DryRun:    s.cfg.DryRun,
				Rollback:  s.cfg.Rollback,
			})
			if result != nil {
				out := cmd.OutOrStdout()
				r := newRenderer(out, opts.noColor)
				if len(result.Results) > 0 {
					style.Fprint(out, r.RenderResults(result.Results))
				}
				if err == nil && !result.DryRun {
					style.Fprint(out, fmt.Sprintf(MsgStagedFormat, result.Specifications, result.Root))
				}
				if result.DryRun {
					style.Fprint(out, MsgDryRunNotice+"\n")
				}
			}
			return err
		},
	}
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "plan [stage-file]",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, opts, args)
			if err != nil {
				return err
			}

			plan, err := commands.Plan(commands.PlanOptions{
				StageFile: s.stageFile,
				Root:      s.root,
				Variables: s.cfg.Variables,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			style.Fprint(out, newRenderer(out, opts.noColor).RenderPlan(s.root, plan.Lines()))
			return nil
		},
	}
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check [stage-file]",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, opts, args)
			if err != nil {
				return err
			}

			result, err := commands.Check(commands.CheckOptions{
				StageFile: s.stageFile,
				Variables: s.cfg.Variables,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			style.Fprint(out, fmt.Sprintf(MsgCheckOKFormat, result.StageFile, len(result.Targets), result.Total))
			kinds := make([]string, 0, len(result.Kinds))
			for kind := range result.Kinds {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				style.Fprint(out, fmt.Sprintf(MsgCheckKindFormat, kind, result.Kinds[kind]))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			style.Fprint(cmd.OutOrStdout(),
				fmt.Sprintf(MsgVersionFormat, version.Version, version.Commit, version.Date))
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				return fmt.Errorf(MsgErrCompletion, args[0], err)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [dir]",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			header := &doc.GenManHeader{
				Title:   "STAGER",
				Section: "1",
				Source:  "stager " + version.Version,
				Manual:  "stager manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return fmt.Errorf(MsgErrManPages, err)
			}
			style.Fprint(cmd.OutOrStdout(), fmt.Sprintf(MsgManWritten, dir))
			return nil
		},
	}
}
