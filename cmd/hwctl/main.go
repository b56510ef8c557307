// Package main is the entry point for the hwctl admin tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/hwportal/cmd/hwctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
