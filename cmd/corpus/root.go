package main

import (
	"fmt"
	"os"

	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Corpus converts annotated text into the native name finder format",
	Long: `Corpus converts annotated corpora into the native name finder training format,
validates training parameter files and manages serialized model artifacts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configFrom reads the persistent flags.
func configFrom(cmd *cobra.Command) cli.Config {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	logFormat, _ := flags.GetString("log-format")
	store, _ := flags.GetString("store")
	storeDir, _ := flags.GetString("store-dir")
	redisAddr, _ := flags.GetString("redis-addr")
	redisDB, _ := flags.GetInt("redis-db")

	return cli.Config{
		Debug:         debug,
		LogFormat:     logFormat,
		Store:         store,
		StoreDir:      storeDir,
		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("CORPUS_REDIS_PASSWORD"),
		RedisDB:       redisDB,
		EncryptionKey: os.Getenv("CORPUS_ENCRYPTION_KEY"),
		Stderr:        cmd.ErrOrStderr(),
	}
}

func streamsFrom(cmd *cobra.Command) cli.Streams {
	return cli.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: 'text' or 'json'")
	rootCmd.PersistentFlags().String("store", cli.StoreFile, "Artifact store: file, diskv, redis or memory")
	rootCmd.PersistentFlags().String("store-dir", "", "Base directory of the file and diskv stores")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for --store=redis")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database for --store=redis")
}
