// Package main provides the CLI entry point for the Rowpipe runtime.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowpipe/runtime/internal/cli"
	"github.com/rowpipe/runtime/internal/config"
	"github.com/rowpipe/runtime/internal/logger"
	"github.com/rowpipe/runtime/internal/runtime"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Run command flags
	dryRun bool

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rowpipe",
	Short: "Rowpipe - Declarative record pipeline runtime",
	Long: `Rowpipe is a CLI tool for running declarative record pipelines.

It parses and validates pipeline definitions (JSON/YAML format), then
streams records from the source through the configured stages into the
sink.

Examples:
  # Validate a pipeline definition
  rowpipe validate pipeline.json

  # Run a pipeline
  rowpipe run pipeline.yaml

  # Validate with verbose output
  rowpipe validate --verbose pipeline.json`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(slog.LevelDebug)
		} else if quiet {
			logger.SetLevel(slog.LevelError)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <definition-file>",
	Short: "Validate a pipeline definition file",
	Long: `Validate a pipeline definition file against the schema.

Supports both JSON and YAML formats. The format is auto-detected based
on file extension (.json, .yaml, .yml) or content.

Exit codes:
  0 - Definition is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)

Examples:
  rowpipe validate pipeline.json
  rowpipe validate pipeline.yaml
  rowpipe validate --verbose pipeline.json`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <definition-file>",
	Short: "Run a pipeline from a definition file",
	Long: `Run the pipeline defined in the definition file.

The definition is first validated against the schema. If validation
fails, the pipeline is not executed.

Flags:
  --dry-run   Run the pipeline end to end without writing output

Exit codes:
  0 - Pipeline ran successfully
  1 - Validation errors
  2 - Parse errors
  3 - Runtime errors

Examples:
  rowpipe run pipeline.json
  rowpipe run --verbose pipeline.yaml
  rowpipe run --dry-run pipeline.json`,
	Args: cobra.ExactArgs(1),
	Run:  runPipeline,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing output")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDefinition parses and validates a definition file, exiting with
// the appropriate code on failure.
func loadDefinition(path string) *config.Result {
	result := config.ParseFile(path)

	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		os.Exit(ExitValidationError)
	}

	return result
}

func runValidate(_ *cobra.Command, args []string) {
	definitionPath := args[0]

	if !quiet {
		fmt.Printf("Validating definition: %s\n", definitionPath)
	}

	result := loadDefinition(definitionPath)

	if !quiet {
		fmt.Printf("✓ Definition is valid (format: %s)\n", result.Format)
		if verbose {
			cli.PrintDefinitionSummary(result.Data)
		}
	}

	os.Exit(ExitSuccess)
}

func runPipeline(cmd *cobra.Command, args []string) {
	definitionPath := args[0]

	if !quiet {
		fmt.Printf("Loading pipeline definition: %s\n", definitionPath)
	}

	result := loadDefinition(definitionPath)

	if !quiet {
		fmt.Printf("✓ Definition loaded successfully (format: %s)\n", result.Format)
	}

	def, err := config.ConvertToDefinition(result.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to convert definition: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	if verbose {
		cli.PrintDefinitionSummary(result.Data)
	}

	if !quiet {
		if dryRun {
			fmt.Println("Running pipeline (dry-run mode - no output will be written)...")
		} else {
			fmt.Println("Running pipeline...")
		}
	}

	executor := runtime.NewExecutor(dryRun)
	runResult, err := executor.Execute(cmd.Context(), def)

	cli.PrintRunResult(runResult, err, cli.OutputOptions{
		Verbose: verbose,
		Quiet:   quiet,
		DryRun:  dryRun,
	})

	if err != nil {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}
