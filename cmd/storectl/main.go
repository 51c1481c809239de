// Package main is the entry point of storectl.
package main

import (
	"os"

	"github.com/Rsaliu/store-lib/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
