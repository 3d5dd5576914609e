package main

import (
	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <format>",
	Short: "Convert a corpus into the native name finder format",
	Long: `Reads samples in the given format and writes them in the native format,
one sample per line. Output goes to stdout unless --out is set, in which case
the file is replaced atomically once every sample has been written.`,
	Example: `  corpus convert jsonl --data train.jsonl --out train.txt
  cat corpus.txt | corpus convert text --data - -p types=PERSON,GPE -p lowercase_types=true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		out, _ := cmd.Flags().GetString("out")
		encoding, _ := cmd.Flags().GetString("encoding")
		params, _ := cmd.Flags().GetStringArray("param")
		noProgress, _ := cmd.Flags().GetBool("no-progress")
		quiet, _ := cmd.Flags().GetBool("quiet")

		_, err := cli.RunConvert(configFrom(cmd), cli.ConvertOptions{
			Format:   args[0],
			Data:     data,
			Out:      out,
			Encoding: encoding,
			Params:   params,
			Progress: !noProgress,
			Quiet:    quiet,
		}, streamsFrom(cmd))
		return err
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("data", "", "Input file, or '-' for stdin")
	convertCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	convertCmd.Flags().String("encoding", "", "Input charset (default UTF-8)")
	convertCmd.Flags().StringArrayP("param", "p", nil, "Format parameter as key=value (repeatable)")
	convertCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	convertCmd.Flags().BoolP("quiet", "q", false, "Do not print the summary line")
	_ = convertCmd.MarkFlagRequired("data")
}
