package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/pmplus/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new pmplus project",
	Long: `Initialize a new pmplus project in the current directory.

This creates:
  - .pmplus.config.json  - Configuration file
  - example.yaml         - Example document

Examples:
  pmplus init
  pmplus init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleDocument = `name: Example
description: Generated by pmplus init
ver: 1.0.0
steps:
  - set(user=admin)
  - Health:
      GET: "{{domain}}/health"
      test: pm.test("status is 200", () => pm.response.to.have.status(200))
  - Create Resource:
      POST: "{{domain}}/resources"
      headers:
        Content-Type: application/json
      body:
        raw: |
          {
            "name": "Test Resource",
            "owner": "{{user}}"
          }
      test: |
        pm.test("status is 201", () => pm.response.to.have.status(201));
        pm.environment.set("resourceId", pm.response.json().id);
  - clear()
  - Get Resource:
      GET: "{{domain}}/resources/{{resourceId}}"
      test: pm.test("found", () => pm.response.to.have.status(200))
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	exampleFile := filepath.Join(cwd, "example"+appConfig.DefaultExtension)

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Exclude = []string{"node_modules"}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleDocument), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\npmplus project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'pmplus convert %s' to build the collection.\n", filepath.Base(exampleFile))

	return nil
}
