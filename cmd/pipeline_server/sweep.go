package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/hiring-pipeline/internal/db"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/sweeper"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark overdue scorecards once and exit",
	Long:  `Run a single overdue-scorecard sweep against the database. The serve command runs the same sweep periodically; this is for cron or manual use.`,
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	start := time.Now()
	marked, err := sweeper.New(database, 0).SweepOnce(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep scorecards: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintSweepResult(marked, time.Since(start))
	return nil
}
