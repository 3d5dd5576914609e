package main

import (
	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect training parameter files",
}

var paramsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a training parameters file",
	Long: `Loads a .properties or .yaml parameters file and checks it against the trainer
policy. Without a file the default parameters are validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ValidateParams(configFrom(cmd), paramsOptions(cmd, args), streamsFrom(cmd))
	},
}

var paramsShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the effective training parameters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ShowParams(configFrom(cmd), paramsOptions(cmd, args), streamsFrom(cmd))
	},
}

func paramsOptions(cmd *cobra.Command, args []string) cli.ParamsOptions {
	seq, _ := cmd.Flags().GetBool("sequence")
	opts := cli.ParamsOptions{Sequence: seq}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	return opts
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.AddCommand(paramsValidateCmd, paramsShowCmd)

	paramsCmd.PersistentFlags().Bool("sequence", false, "Allow sequence training algorithms")
}
