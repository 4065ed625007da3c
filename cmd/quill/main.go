// Command quill sends a prompt assembled from stdin, files, and URLs to a
// large language model and prints the response.
//
// Input flows stdin -> quill -> stdout so invocations compose in shell
// pipelines. The command (-c) selects a fixed system prompt, the model (-m)
// selects the provider through the model registry, and positional arguments
// are files or URLs appended to the prompt in order.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/awhite/quill/pkg/config"
	"github.com/awhite/quill/pkg/fetch"
	"github.com/awhite/quill/pkg/models"
	"github.com/awhite/quill/pkg/prompt"
	"github.com/awhite/quill/pkg/provider"
	"github.com/awhite/quill/pkg/query"
)

const defaultTemperature = 1.0

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Help text precedes the error message so a failed invocation
		// always shows the valid usage.
		fmt.Println(rootCmd.UsageString())
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quill [flags] [files | urls]",
	Short: "A command line client for large language models",
	Long: `Quill sends prompts to a large language model and prints the response.

The prompt is assembled from stdin (when piped), followed by the content of
any file or URL arguments, in order. The --command flag selects the system
prompt attached to the query:

  query   answer an arbitrary question (default)
  plan    produce a software design specification
  code    generate source code
  review  review source code

Output goes to stdout, so invocations compose in pipelines:
  cat notes.md | quill -c plan -m claude-3-5-sonnet | quill -c code -m gpt-4o`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runQuery,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the supported models and providers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported providers and models:")
		for _, mp := range models.ProviderList() {
			fmt.Printf("  %-10s: %s\n", mp.Provider, mp.Model)
		}
	},
}

func runQuery(cmd *cobra.Command, args []string) error {
	command, _ := cmd.Flags().GetString("command")
	model, _ := cmd.Flags().GetString("model")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	cfgPath, _ := cmd.Flags().GetString("config")

	if model == "" {
		return errors.New("model is required (-m), see 'quill models' for the supported list")
	}
	if _, err := prompt.System(command); err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(configPath(cfgPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	promptText, err := fetch.ReadStdin()
	if err != nil {
		return err
	}

	qc, err := query.CreateContext(command, model, temperature, args, promptText)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Using model:", qc.Model)

	client, err := provider.New(cfg, qc)
	if err != nil {
		return err
	}
	defer client.Close()

	response, err := client.Query(cmd.Context(), qc)
	if err != nil {
		return fmt.Errorf("querying model %s: %w", qc.Model, err)
	}

	fmt.Println(response)
	return nil
}

// configPath returns the explicit --config path, or the per-user default.
func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "quill.yaml"
	}
	return filepath.Join(home, ".config", "quill", "config.yaml")
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	rootCmd.Flags().StringP("command", "c", "query", "Command to execute: query, plan, code, or review")
	rootCmd.Flags().StringP("model", "m", "", "Model name to use")
	rootCmd.Flags().Float64P("temperature", "t", defaultTemperature, "Temperature value (0..1.0]")
	rootCmd.Flags().String("config", "", "Path to config file (default $HOME/.config/quill/config.yaml)")

	rootCmd.AddCommand(modelsCmd)
}

// loadDotEnv loads a .env file from the working directory when one exists, so
// API keys can live next to a project instead of the shell profile.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: loading .env:", err)
	}
}
