// Package main provides the jdfit CLI for scoring candidates against a job profile.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jdfit",
	Short: "JD fit evaluator",
	Long:  "jdfit scores a pool of candidate records against a structured job profile, producing per-candidate fit scores with sub-score breakdowns and human-readable rationale.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
