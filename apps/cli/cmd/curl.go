package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/curl"
	"github.com/abdul-hamid-achik/pmplus/packages/outpath"
	"github.com/spf13/cobra"
)

var (
	curlOutputFlag string
	curlFileFlag   string
	curlNameFlag   string
)

var curlCmd = &cobra.Command{
	Use:   "curl [command]",
	Short: "Turn a curl command into a YAML document",
	Long: `Convert a curl command into a one-step YAML document. The command is
read from the argument, or from stdin when no argument is given. The URL's
scheme and host are replaced by {{domain}}.

Output goes to curl_<unix-millis>.yaml unless -o is given; -o - prints it.

Examples:
  pmplus curl "curl -X POST https://api.example.com/users -d '{\"a\":1}'"
  pbpaste | pmplus curl -o create-user.yaml
  pmplus curl --file commands.sh -o suite.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: curlCommand,
}

func init() {
	curlCmd.Flags().StringVarP(&curlOutputFlag, "output", "o", "", "Output file (- for stdout)")
	curlCmd.Flags().StringVarP(&curlFileFlag, "file", "f", "", "Read one curl command per line from a file")
	curlCmd.Flags().StringVar(&curlNameFlag, "name", curl.DefaultName, "Document name")
}

func curlCommand(cmd *cobra.Command, args []string) error {
	conv := curl.NewConverter(curl.WithName(curlNameFlag))

	var (
		doc *document.Document
		err error
	)
	if curlFileFlag != "" {
		doc, err = conv.ConvertFile(curlFileFlag)
	} else {
		var input string
		input, err = curlInput(cmd, args)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		doc, err = conv.ConvertCommand(input)
	}
	if err != nil {
		if errors.Is(err, curl.ErrNoURL) {
			return withExitCode(ExitParseError, err)
		}
		return err
	}

	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}

	switch out := curlOutputFlag; out {
	case "-":
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "":
		curlOutputFlag = outpath.Timestamped(".", "curl", appConfig.DefaultExtension, time.Now())
	}
	if err := os.WriteFile(curlOutputFlag, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", curlOutputFlag, err)
	}
	console.Saved(curlOutputFlag)
	return nil
}

func curlInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", fmt.Errorf("no curl command given")
	}
	return input, nil
}
