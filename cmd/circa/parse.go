package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"circa/internal/diagfmt"
	"circa/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.circ",
		Short: "Parse a circa source file and print its outline",
		Long:  `Parse builds the syntax tree of one file and prints an outline of its items; syntax errors go to stderr`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOpts(cmd, os.Stderr)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := diagfmt.FormatOutline(cmd.OutOrStdout(), result.Builder, result.File); err != nil {
		return err
	}
	return renderDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, opts)
}
