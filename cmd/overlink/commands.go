package overlink

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/overlink/overlink/internal/version"
	"github.com/overlink/overlink/pkg/cobrax/topics"
	"github.com/overlink/overlink/pkg/commands"
	"github.com/overlink/overlink/pkg/config"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/paths"
	"github.com/overlink/overlink/pkg/style"
	"github.com/overlink/overlink/pkg/types"
	"github.com/overlink/overlink/pkg/ui"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity  int
		dryRun     bool
		format     string
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:     "overlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help from the embedded topic files. The
	// binary carries its own documentation.
	_ = topics.InitializeWithOptions(rootCmd, topicsFS(), topics.Options{
		Extensions: []string{".txt", ".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})

	return rootCmd
}

// loadConfig reads the config file selected by the --config flag, or the
// default one when the flag is unset. An explicitly named file must
// exist; the default location may be absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = paths.ConfigFile()
	}
	return config.Load(configPath, explicit)
}

// applyOptions merges config file values with command line flags. Flags
// win when set explicitly.
func applyOptions(cmd *cobra.Command) (commands.ApplyOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return commands.ApplyOptions{}, err
	}

	opts := commands.ApplyOptions{
		BaseDir:       cfg.Overlay.BaseDir,
		OverlayDir:    cfg.Overlay.OverlayDir,
		RelativeLinks: cfg.Overlay.RelativeLinks,
		WarnConflict:  cfg.Overlay.WarnConflict,
		BackupDir:     cfg.Overlay.BackupDir,
		Collapse:      cfg.Overlay.Collapse,
		JournalPath:   cfg.Journal.Path,
	}
	if opts.Conflict, err = cfg.ConflictPolicy(); err != nil {
		return commands.ApplyOptions{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		opts.BaseDir, _ = flags.GetString("base-dir")
	}
	if flags.Changed("overlay-dir") {
		opts.OverlayDir, _ = flags.GetString("overlay-dir")
	}
	if flags.Changed("relative-links") {
		opts.RelativeLinks, _ = flags.GetBool("relative-links")
	}
	if flags.Changed("conflict") {
		raw, _ := flags.GetString("conflict")
		if opts.Conflict, err = types.ParseConflictPolicy(raw); err != nil {
			return commands.ApplyOptions{}, err
		}
	}
	if flags.Changed("warn-conflict") {
		opts.WarnConflict, _ = flags.GetBool("warn-conflict")
	}
	if flags.Changed("backup-dir") {
		opts.BackupDir, _ = flags.GetString("backup-dir")
	}
	if flags.Changed("collapse") {
		opts.Collapse, _ = flags.GetBool("collapse")
	}
	if flags.Changed("journal") {
		opts.JournalPath, _ = flags.GetString("journal")
	}

	opts.DryRun, _ = cmd.Root().PersistentFlags().GetBool("dry-run")
	return opts, nil
}

// addApplyFlags defines the flags shared by apply and plan.
func addApplyFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-dir", "", MsgFlagBaseDir)
	cmd.Flags().String("overlay-dir", "", MsgFlagOverlayDir)
	cmd.Flags().Bool("relative-links", true, MsgFlagRelativeLinks)
	cmd.Flags().String("conflict", string(types.ConflictError), MsgFlagConflict)
	cmd.Flags().Bool("warn-conflict", true, MsgFlagWarnConflict)
	cmd.Flags().String("backup-dir", "", MsgFlagBackupDir)
	cmd.Flags().Bool("collapse", true, MsgFlagCollapse)
	cmd.Flags().String("journal", "", MsgFlagJournal)
}

// renderResult writes a command result in the selected output format.
func renderResult(cmd *cobra.Command, result interface{}) error {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(raw)
	if err != nil {
		return err
	}

	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return renderer.RenderResult(result)
}

// printWarnings sends warnings to stderr so they stay visible when
// stdout is piped.
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), style.GetStyle("Warning").Render(warning))
	}
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := applyOptions(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("base_dir", opts.BaseDir).
				Str("overlay_dir", opts.OverlayDir).
				Bool("dry_run", opts.DryRun).
				Msg("Applying overlay onto base directory")

			result, err := commands.Apply(opts)
			if err != nil {
				return err
			}

			printWarnings(cmd, result.Warnings)
			return renderResult(cmd, result)
		},
	}

	addApplyFlags(cmd)
	return cmd
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Example: MsgPlanExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := applyOptions(cmd)
			if err != nil {
				return err
			}
			// Plan is apply without the execution step.
			opts.DryRun = true

			log.Info().
				Str("base_dir", opts.BaseDir).
				Str("overlay_dir", opts.OverlayDir).
				Msg("Planning overlay changes")

			result, err := commands.Apply(opts)
			if err != nil {
				return err
			}

			printWarnings(cmd, result.Warnings)
			return renderResult(cmd, result)
		},
	}

	addApplyFlags(cmd)
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clean <root>",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		Example: MsgCleanExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := commands.CleanOptions{
				Root:        args[0],
				JournalPath: cfg.Journal.Path,
			}
			opts.Exclude, _ = cmd.Flags().GetStringArray("exclude")
			if cmd.Flags().Changed("journal") {
				opts.JournalPath, _ = cmd.Flags().GetString("journal")
			}
			opts.DryRun, _ = cmd.Root().PersistentFlags().GetBool("dry-run")

			log.Info().
				Str("root", opts.Root).
				Bool("dry_run", opts.DryRun).
				Msg("Cleaning unmanaged paths")

			result, err := commands.Clean(opts)
			if err != nil {
				return err
			}

			return renderResult(cmd, result)
		},
	}

	cmd.Flags().StringArrayP("exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().String("journal", "", MsgFlagJournal)
	return cmd
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Root().PersistentFlags().GetString("config")

			opts := commands.GenConfigOptions{ConfigPath: configPath}
			opts.Effective, _ = cmd.Flags().GetBool("effective")
			opts.Write, _ = cmd.Flags().GetBool("write")
			opts.Path, _ = cmd.Flags().GetString("path")

			result, err := commands.GenConfig(opts)
			if err != nil {
				return err
			}

			return renderResult(cmd, result)
		},
	}

	cmd.Flags().BoolP("write", "w", false, MsgFlagWrite)
	cmd.Flags().Bool("effective", false, MsgFlagEffective)
	cmd.Flags().String("path", "", MsgFlagPath)
	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
