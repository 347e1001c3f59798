package main

import (
	"fmt"
	"os"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for application stage moves and interview scheduling.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file (optional)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var appCfg *config.Config
	if serveConfig != "" {
		loaded, err := config.LoadConfig(serveConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		appCfg = loaded
	}

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		App:         appCfg,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
