package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/core"
)

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m := openModel()
		ctx := context.Background()

		inst, err := m.FindOne(ctx, marl.Conditions{"id": args[0]})
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "document not found: %s\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fatal("Error fetching document", err)
		}

		if err := inst.Remove(ctx); err != nil {
			fatal("Error removing document", err)
		}
		fmt.Printf("removed %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
