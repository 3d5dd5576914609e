package main

import (
	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var artifactCmd = &cobra.Command{
	Use:     "artifact",
	Aliases: []string{"artifacts"},
	Short:   "Manage serialized model artifacts",
	Long:    `Stores, retrieves and removes model artifacts in the store selected with --store.`,
}

var artifactPutCmd = &cobra.Command{
	Use:   "put <name> <file>",
	Short: "Store a model file under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PutArtifact(cmd.Context(), configFrom(cmd), args[0], args[1])
	},
}

var artifactGetCmd = &cobra.Command{
	Use:   "get <name> [file]",
	Short: "Write a stored artifact to a file or stdout",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		return cli.GetArtifact(cmd.Context(), configFrom(cmd), args[0], path, streamsFrom(cmd))
	},
}

var artifactListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored artifacts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListArtifacts(cmd.Context(), configFrom(cmd), streamsFrom(cmd))
	},
}

var artifactDeleteCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a stored artifact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.DeleteArtifact(cmd.Context(), configFrom(cmd), args[0])
	},
}

func init() {
	rootCmd.AddCommand(artifactCmd)
	artifactCmd.AddCommand(artifactPutCmd, artifactGetCmd, artifactListCmd, artifactDeleteCmd)
}
