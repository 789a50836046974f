// Package cmd holds the portfolio command line.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for portfolio.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Bilingual portfolio server",
		Long:         "Serves the EN/RU portfolio content and the challenge gate in front of the Instagram link.",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("content-dir", "", "Content catalog directory (default: embedded catalog)")

	rootCmd.AddCommand(
		newServeCommand(),
		newLintCommand(),
		newVersionCommand(),
	)

	return rootCmd
}
