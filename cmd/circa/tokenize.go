package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"circa/internal/diagfmt"
	"circa/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.circ",
		Short: "Tokenize a circa source file",
		Long:  `Tokenize breaks down a circa source file into its constituent tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	opts, err := readOutputOpts(cmd, os.Stderr)
	if err != nil {
		return err
	}
	// --format здесь про токены, диагностика всегда pretty
	opts.format = "pretty"

	result, err := driver.Tokenize(args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	return renderDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, opts)
}
