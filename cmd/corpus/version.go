package main

import (
	"fmt"

	"github.com/aretw0/corpus"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of corpus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "corpus version %s\n", corpus.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
