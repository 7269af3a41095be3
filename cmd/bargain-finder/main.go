// Package main is the entry point for bargain-finder.
package main

import (
	"os"

	"github.com/donaldgifford/bargain-finder/cmd/bargain-finder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
