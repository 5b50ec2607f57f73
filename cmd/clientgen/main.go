package main

import (
	"fmt"
	"os"

	"github.com/autoocto/clientgen/internal/cli"
)

var version = "dev"

func main() {
	root := cli.NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
