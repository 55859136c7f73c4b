package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/adapters/file"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List documents in the store",
	Long: `List all documents, optionally filtered by a glob pattern matched against
the document identifier (e.g. "users/*").`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}

		store := openFileStore()
		docs, err := store.List(context.Background(), pattern)
		if err != nil {
			fatal("Error listing documents", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(docs); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, doc := range docs {
			name := ""
			if n, ok := doc["name"].(string); ok {
				name = fmt.Sprintf("- %s", n)
			}
			fmt.Printf("%v %s\n", doc["_id"], name)
		}
	},
}

// openFileStore opens the store file directly, for the commands that need
// adapter-level operations (listing, watching).
func openFileStore() *file.Store {
	store, err := marl.Init(storePath,
		marl.WithReadOnly(readOnly),
		marl.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error opening store", err)
	}
	fs, ok := store.(*file.Store)
	if !ok {
		fatal("Error opening store", fmt.Errorf("adapter does not support this command"))
	}
	return fs
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
