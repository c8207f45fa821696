// Package main provides the entry point for the career log HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerlog",
	Short: "Career log HTTP API server",
	Long:  "Career log collects daily GitHub activity, digests it into reviewable achievements, and generates Japanese 職務経歴書 documents via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
