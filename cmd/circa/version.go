package main

import (
	"os"

	"github.com/spf13/cobra"

	"circa/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			colored, err := readColor(cmd, os.Stdout)
			if err != nil {
				return err
			}
			version.Print(cmd.OutOrStdout(), colored)
			return nil
		},
	}
}
