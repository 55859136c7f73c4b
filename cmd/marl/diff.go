package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
)

var diffCmd = &cobra.Command{
	Use:   "diff [before.json] [after.json]",
	Short: "Show the change set between two document files",
	Long: `Compute the minimal change set that would transform the first document
into the second, in $set/$unset form with dotted paths for nested fields.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		before := readDocument(args[0])
		after := readDocument(args[1])

		changes := marl.Diff(before, after)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(changes); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func readDocument(path string) marl.Document {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal("Error reading document file", err)
	}
	var doc marl.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		fatal(fmt.Sprintf("Error parsing %s", path), err)
	}
	return doc
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
