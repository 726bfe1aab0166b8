package main

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stager/internal/version"
	"github.com/arthur-debert/stager/pkg/config"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity int
	dryRun    bool
	root      string
	backend   string
	rollback  bool
	vars      map[string]string
	noColor   bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "stager",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{
				Verbosity: opts.verbosity,
				Console:   cmd.ErrOrStderr(),
				NoColor:   !useColor(cmd.ErrOrStderr(), opts.noColor),
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVarP(&opts.root, "root", "r", "", MsgFlagRoot)
	flags.StringVar(&opts.backend, "backend", "", MsgFlagBackend)
	flags.BoolVar(&opts.rollback, "rollback", false, MsgFlagRollback)
	flags.StringToStringVar(&opts.vars, "var", nil, MsgFlagVar)
	flags.BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)

	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendFilesystem, config.BackendSynthfs}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newStageCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// settings is the merged configuration a command runs with.
type settings struct {
	cfg       *config.Config
	stageFile string
	root      string
}

// loadSettings layers the command line over the app configuration. The
// optional argument names the stage file; a stager.toml next to it is read.
// Relative roots from a config file are taken relative to that file.
func loadSettings(cmd *cobra.Command, opts *globalOptions, args []string) (*settings, error) {
	dir := "."
	if len(args) > 0 {
		dir = filepath.Dir(args[0])
	}

	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		overrides["dry_run"] = opts.dryRun
	}
	if flags.Changed("root") {
		overrides["root"] = opts.root
	}
	if flags.Changed("backend") {
		overrides["backend"] = opts.backend
	}
	if flags.Changed("rollback") {
		overrides["rollback"] = opts.rollback
	}
	for name, value := range opts.vars {
		if strings.TrimSpace(name) == "" || strings.Contains(name, ".") {
			return nil, fmt.Errorf(MsgErrInvalidVar, name)
		}
		overrides["variables."+name] = value
	}

	cfg, err := config.Load(dir, overrides)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	s := &settings{cfg: cfg, stageFile: cfg.StageFile, root: cfg.Root}
	if len(args) > 0 {
		s.stageFile = args[0]
	} else if !filepath.IsAbs(s.stageFile) {
		s.stageFile = filepath.Join(dir, s.stageFile)
	}
	if !flags.Changed("root") && !filepath.IsAbs(s.root) {
		s.root = filepath.Join(dir, s.root)
	}

	log.Debug().
		Str("stage_file", s.stageFile).
		Str("root", s.root).
		Str("backend", cfg.Backend).
		Bool("dry_run", cfg.DryRun).
		Msg("Loaded settings")
	return s, nil
}

// reportError prints err to the command's error stream and logs each
// failure with its details.
func reportError(cmd *cobra.Command, err error) {
	var batch *errors.Errors
	if stderrors.As(err, &batch) {
		for _, e := range batch.Errors() {
			log.Debug().Str("code", string(e.Code)).Fields(e.Details).Msg(e.Message)
		}
	} else {
		log.Debug().Str("code", string(errors.GetErrorCode(err))).Msg("Command failed")
	}

	noColor, _ := cmd.PersistentFlags().GetBool("no-color")
	w := cmd.ErrOrStderr()
	style.Fprint(w, newRenderer(w, noColor).RenderError(err))
}
