package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/pmplus/packages/core/config"
	"github.com/abdul-hamid-achik/pmplus/packages/core/env"
	"github.com/spf13/cobra"
)

var (
	envDomainFlag string
	envNameFlag   string
	envFilesFlag  []string
	envPrefixFlag string
	envOutputFlag string
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Write an environment file for the collection runner",
	Long: `Write a Postman environment holding {{domain}} and the variables of
.env files (and, with --prefix, of matching process environment variables).
domain comes first, the others follow in sorted order.

Examples:
  pmplus env --domain https://staging.example.com -o staging.json
  pmplus env --env-file .env --env-file .env.local
  pmplus env --prefix API_`,
	Args: cobra.NoArgs,
	RunE: envCommand,
}

func init() {
	envCmd.Flags().StringVar(&envDomainFlag, "domain", "", "Value of {{domain}} (default from config, then "+config.DefaultDomain+")")
	envCmd.Flags().StringVar(&envNameFlag, "name", "pmplus", "Environment name")
	envCmd.Flags().StringSliceVar(&envFilesFlag, "env-file", nil, ".env file to read; later files win (repeatable)")
	envCmd.Flags().StringVar(&envPrefixFlag, "prefix", "", "Also read process environment variables with this prefix")
	envCmd.Flags().StringVarP(&envOutputFlag, "output", "o", "", "Output file (default: stdout)")
}

func envCommand(cmd *cobra.Command, args []string) error {
	sources := []map[string]string{}
	if len(envFilesFlag) > 0 {
		vars, err := env.LoadDotEnv(envFilesFlag...)
		if err != nil {
			return withExitCode(ExitConfigError, err)
		}
		sources = append(sources, vars)
	}
	if envPrefixFlag != "" {
		sources = append(sources, env.LoadSystemEnv(envPrefixFlag))
	}

	domain := envDomainFlag
	if domain == "" {
		domain = appConfig.Domain
	}
	environment := env.BuildEnvironment(envNameFlag, domain, config.DefaultDomain, env.MergeVariables(sources...))

	if envOutputFlag == "" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(environment)
	}
	if err := environment.WriteFile(envOutputFlag); err != nil {
		return fmt.Errorf("failed to write %s: %w", envOutputFlag, err)
	}
	console.Saved(envOutputFlag)
	return nil
}
