// Package main provides the entry point for the Hiring Pipeline HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pipeline_server",
	Short: "Hiring Pipeline HTTP API Server",
	Long:  "Hiring Pipeline moves job applications through staged hiring workflows and schedules conflict-free interview panels via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
