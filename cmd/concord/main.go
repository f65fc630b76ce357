// Package main provides the concord CLI, a scripture study tool that
// fetches passages, keeps a local study database, and runs analytics
// over saved verses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
