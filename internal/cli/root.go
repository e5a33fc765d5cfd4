package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tacogips/pipelinedoc/internal/app"
	"github.com/tacogips/pipelinedoc/internal/build"
	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
)

// Global flags
var (
	globalConfig    string
	globalNoColor   bool
	globalQuiet     bool
	globalDebug     bool
	globalLogFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   build.Name,
	Short: "Markdown documentation generator for pipeline templates",
	Long: `pipelinedoc generates Markdown documentation for Azure Pipelines YAML
templates.

Each template gets one document with its name, version, description, a
usage example, a parameter table and any examples from the template's
properties file (<template>.properties.yml, .yaml or .json).

Use "pipelinedoc generate" to document every template under the current
directory, "pipelinedoc watch" to regenerate on change, and
"pipelinedoc properties init <template>" to scaffold a properties file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stdout = cmd.OutOrStdout()
		stderr = cmd.ErrOrStderr()
		color.NoColor = globalNoColor || !isTerminal(os.Stdout)

		// Configuration is not loaded yet; commands that load it call
		// setupLogging again with the configured values.
		return setupLogging(config.DefaultConfig().Logging)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalConfig, FlagConfig, "c", "", DescConfig)
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, FlagLogFormat, "", DescLogFormat)

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration with the given command flags bound to
// their configuration keys, then reconfigures logging from it.
func loadConfig(cmd *cobra.Command, bindings []flagBinding) (*config.Config, error) {
	loader := config.NewLoader()
	for _, b := range bindings {
		if err := loader.BindFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
			return nil, app.NewConfigLoadError("failed to bind flags", err)
		}
	}
	if err := loader.BindFlag(config.KeyLoggingFormat, cmd.Flags().Lookup(FlagLogFormat)); err != nil {
		return nil, app.NewConfigLoadError("failed to bind flags", err)
	}

	cfg, err := loader.Load(globalConfig)
	if err != nil {
		return nil, app.NewConfigLoadError("failed to load configuration", err)
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return nil, app.NewConfigLoadError("failed to configure logging", err)
	}

	log := logging.Component("cli")
	if used := loader.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("configuration loaded")
	}
	return cfg, nil
}

// setupLogging configures the logger from configuration and global flags.
func setupLogging(lc config.LoggingConfig) error {
	level := lc.Level
	if globalDebug {
		level = "debug"
	}
	format := logging.Format(lc.Format)
	if globalLogFormat != "" {
		format = logging.Format(globalLogFormat)
	}
	return logging.Setup(logging.Options{
		Level:   level,
		Format:  format,
		NoColor: globalNoColor || !lc.Color || !isTerminal(os.Stderr),
		Writer:  stderr,
	})
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
