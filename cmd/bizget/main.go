package main

import (
	"fmt"
	"os"

	"github.com/ekaya-inc/bizget-engine/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cli.Version = Version
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
