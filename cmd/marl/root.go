package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/model"
)

var (
	storePath string
	readOnly  bool
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marl",
	Short: "A diff-based document store backed by a single JSON or YAML file",
	Long: `Marl persists documents to one serialized file and tracks each document's
lifecycle: saves write only the fields that actually changed, and external
modifications can be observed live.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openModel wires a model over the store file named by the persistent flags.
func openModel() *model.Model {
	m, err := marl.New(storePath,
		marl.WithReadOnly(readOnly),
		marl.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error opening store", err)
	}
	return m
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "marl.json", "Path to the store file (.json, .yaml)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Open the store in read-only mode")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
