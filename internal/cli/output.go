package cli

import (
	"fmt"
	"os"

	"github.com/rowpipe/runtime/pkg/pipe"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
}

// PrintRunResult displays the pipeline run result.
func PrintRunResult(result *pipe.RunResult, err error, opts OutputOptions) {
	if result == nil {
		fmt.Fprintln(os.Stderr, "✗ No run result available")
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Pipeline run failed")
		if result.Error != "" {
			fmt.Fprintf(os.Stderr, "  Error: %s\n", result.Error)
		}
		return
	}

	if opts.Quiet {
		return
	}

	if opts.DryRun {
		fmt.Println("✓ Pipeline dry run completed, no output written")
	} else {
		fmt.Println("✓ Pipeline run completed")
	}
	fmt.Printf("  Status: %s\n", result.Status)
	fmt.Printf("  Records out: %d\n", result.RecordsOut)
	if opts.Verbose {
		fmt.Printf("  Run ID: %s\n", result.RunID)
		fmt.Printf("  Duration: %v\n", result.Duration)
	}
}

// PrintDefinitionSummary prints pipeline name and description when
// available from parsed definition data.
func PrintDefinitionSummary(data map[string]interface{}) {
	if data == nil {
		return
	}
	pipeline, ok := data["pipeline"].(map[string]interface{})
	if !ok {
		return
	}

	if name, ok := pipeline["name"].(string); ok {
		fmt.Printf("  Pipeline: %s\n", name)
	}
	if description, ok := pipeline["description"].(string); ok && description != "" {
		fmt.Printf("  Description: %s\n", description)
	}
}
