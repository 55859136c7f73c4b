package main

import (
	"fmt"
	"os"
)

func main() {
	Execute()
}

// fatal reports a command failure on stderr and exits non-zero. Subcommands
// use it directly so cobra's own error path does not print twice.
func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
