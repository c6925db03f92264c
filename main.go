package main

import (
	"os"

	"github.com/depscope/depscope/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
