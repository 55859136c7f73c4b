package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/core"
)

var setCmd = &cobra.Command{
	Use:   "set [id] [json]",
	Short: "Create or update a document",
	Long: `Merge the given JSON object into the document with the given identifier,
creating it when it does not exist. Only the fields that actually changed
are written.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, payload := args[0], args[1]

		var fields marl.Document
		if err := json.Unmarshal([]byte(payload), &fields); err != nil {
			fatal("Error parsing JSON payload", err)
		}

		m := openModel()
		ctx := context.Background()

		inst, err := m.FindOne(ctx, marl.Conditions{"id": id})
		if errors.Is(err, core.ErrNotFound) {
			inst = m.Create(marl.Document{"id": id})
		} else if err != nil {
			fatal("Error fetching document", err)
		}

		doc := inst.Document()
		for k, v := range fields {
			doc[k] = v
		}

		if err := inst.Save(ctx); err != nil {
			var vErr *core.ValidationError
			if errors.As(err, &vErr) {
				fatal("Document rejected by validation", vErr)
			}
			fatal("Error saving document", err)
		}

		fmt.Println(inst.String())
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
