package main

import (
	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported input formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kit, closeStore, err := configFrom(cmd).NewToolkit()
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		return cli.PrintFormats(kit, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
