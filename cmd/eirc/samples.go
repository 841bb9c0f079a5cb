package main

import (
	"github.com/spf13/cobra"

	"eir/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the built-in sample modules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return samples.List(cmd.OutOrStdout())
	},
}
