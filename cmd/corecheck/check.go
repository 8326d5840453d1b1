package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"beanstalk/internal/diagfmt"
	"beanstalk/internal/driver"
	"beanstalk/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check <fixture.json>",
	Short: "Build a fixture module through the core and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, fs, err := loadFixture(args[0])
	if err != nil {
		return err
	}
	return buildAndReport(cmd, input, fs)
}

// buildAndReport runs input through the core, prints diagnostics in the
// requested format, optionally prints stage timings, and sets the process
// exit status to 1 if the build produced any error-severity diagnostic.
func buildAndReport(cmd *cobra.Command, input driver.ModuleInput, fs *source.FileSet) error {
	format, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return fmt.Errorf("format flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("timings flag: %w", err)
	}

	mod := driver.Build(input)

	switch format {
	case "pretty":
		bag := bagFromModule(mod)
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.Options{PathMode: diagfmt.PathModeBasename, Context: 2})
	case "json":
		bag := bagFromModule(mod)
		if err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.Options{PathMode: diagfmt.PathModeBasename}); err != nil {
			return fmt.Errorf("encode diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if showTimings {
		fmt.Fprint(os.Stdout, "\n", recorderSummary(mod))
	}

	if mod.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
