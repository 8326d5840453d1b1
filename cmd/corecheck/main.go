// Command corecheck is a developer smoke-test CLI for the compiler core:
// it feeds a fixture module through internal/driver.Build and prints the
// resulting diagnostics and stage timings. It is not the language's
// tokenizer-driven compiler front end (out of scope per spec.md §1/§2) —
// it exists for exercising the driver/diagfmt/corediag wiring end to end
// without a real parser in front of it.
//
// Grounded on the teacher's cmd/surge package: one cobra root command with
// subcommands (main.go), a persistent --format flag mirroring diagCmd's,
// and a --timings flag mirroring the teacher's root persistent flag of the
// same name.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"beanstalk/internal/diag"
	"beanstalk/internal/driver"
)

var rootCmd = &cobra.Command{
	Use:   "corecheck",
	Short: "Run the compiler core against a fixture module",
}

func main() {
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostic output format (pretty|json)")
	rootCmd.PersistentFlags().Bool("timings", false, "print stage timings after diagnostics")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// bagFromModule wraps a built Module's already-sorted diagnostics slice
// back into a *diag.Bag, the shape diagfmt's renderers expect.
func bagFromModule(mod *driver.Module) *diag.Bag {
	bag := diag.NewBag()
	for _, d := range mod.Diagnostics {
		bag.Add(d)
	}
	return bag
}

// recorderSummary renders a Module's stage timings the way
// corediag.Recorder.Summary formats a live Recorder, reconstructed here
// since driver.Build only returns the finished Report.
func recorderSummary(mod *driver.Module) string {
	out := "stage timings:\n"
	for _, s := range mod.Timings.Stages {
		out += fmt.Sprintf("  %-16s %8.2f ms", s.Stage, s.DurationMS)
		if s.Note != "" {
			out += "  // " + s.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-16s %8.2f ms\n", "total", mod.Timings.TotalMS)
	return out
}
