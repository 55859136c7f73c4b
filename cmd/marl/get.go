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

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print a document",
	Long:  `Fetch the document with the given identifier and print it as indented JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m := openModel()

		inst, err := m.FindOne(context.Background(), marl.Conditions{"id": args[0]})
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "document not found: %s\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fatal("Error fetching document", err)
		}

		fmt.Println(inst.String())
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
