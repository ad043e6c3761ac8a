// Package main is the leapview command: explore CSV files with SQL.
package main

import (
	"os"

	"github.com/leapstack-labs/leapview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
