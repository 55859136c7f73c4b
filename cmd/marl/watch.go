package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lcadapter "github.com/aretw0/marl/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Watch the store file for external changes",
	Long: `Observe the store file and print one line per changed document until
interrupted. The optional glob pattern filters by document identifier.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := openFileStore()
		events, err := store.Watch(ctx, pattern)
		if err != nil {
			fatal("Error starting watcher", err)
		}

		source := lcadapter.NewSource(events)
		if err := source.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}

		fmt.Printf("watching %s (pattern: %q), Ctrl+C to stop\n", store.Path, pattern)
		for event := range source.Events() {
			fmt.Println(event.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
