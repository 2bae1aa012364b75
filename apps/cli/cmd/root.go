package cmd

import (
	"os"

	"github.com/abdul-hamid-achik/pmplus/packages/core/config"
	"github.com/abdul-hamid-achik/pmplus/packages/core/env"
	"github.com/abdul-hamid-achik/pmplus/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// dotEnvFile is exported into the process environment before the config is
// read, without overriding variables that are already set.
const dotEnvFile = ".env"

var (
	configFlag  string
	noColorFlag bool
	verboseFlag int

	// Set by loadConfig before any command runs.
	appConfig *config.Config
	console   *output.ConsoleFormatter
)

var rootCmd = &cobra.Command{
	Use:   "pmplus",
	Short: "Postman collections as plain YAML.",
	Long: `pmplus compiles compact YAML step lists into Postman collections and
flattens collections back into YAML, so API test suites can be written,
reviewed and diffed as text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		if console == nil {
			console = output.NewConsoleFormatter()
		}
		console.FormatError(err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "Path to config file (env: PMPLUS_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: PMPLUS_NOCOLOR)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Print every file read (env: PMPLUS_VERBOSE)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(curlCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// PMPLUS_* settings may live in the project's .env.
	if _, err := os.Stat(dotEnvFile); err == nil {
		if _, err := env.LoadAndExportDotEnv(dotEnvFile); err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	flags := &config.Config{}
	if cmd.Flags().Changed("no-color") {
		flags.NoColor = config.BoolPtr(noColorFlag)
	}
	if verboseFlag > 0 {
		flags.Verbose = config.BoolPtr(true)
	}
	appConfig = cfg.Merge(flags)

	console = output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithErrWriter(cmd.ErrOrStderr()),
		output.WithVerbose(appConfig.GetVerbose()),
		output.WithNoColor(appConfig.GetNoColor()),
	)
	if !cfg.IsDefault() {
		console.Infof("settings: domain %s, max include depth %d, extension %s",
			appConfig.Domain, appConfig.MaxIncludeDepth, appConfig.DefaultExtension)
	}
	return nil
}
