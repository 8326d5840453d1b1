package main

import (
	"github.com/spf13/cobra"

	"beanstalk/internal/driver"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a tiny built-in fixture module without reading any file",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

// runDemo exercises the full pipeline against an in-process fixture: one
// entry file declaring an empty body, so `corecheck demo` works as a
// zero-setup smoke test of the driver/diagfmt/corediag wiring.
func runDemo(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fid := fs.Add("demo.bs", nil)

	input := driver.ModuleInput{
		Files: []driver.FileInput{{
			Path:    "demo.bs",
			Tokens:  &token.Stream{File: fid},
			IsEntry: true,
		}},
		Mode: driver.ModeDebug,
	}

	return buildAndReport(cmd, input, fs)
}
