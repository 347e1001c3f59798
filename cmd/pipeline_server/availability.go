package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/db"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/scheduling"
	"github.com/spf13/cobra"
)

var (
	availParticipants string
	availDuration     int
	availFrom         string
	availTo           string
	availHoursStart   int
	availHoursEnd     int
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List open interview slots for a set of participants",
	Long:  `Scan a time window for slots where every participant is free, respecting working hours and skipping weekends.`,
	RunE:  runSlots,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Show interview booking counts per participant",
	RunE:  runLoad,
}

func init() {
	for _, cmd := range []*cobra.Command{slotsCmd, loadCmd} {
		cmd.Flags().StringVar(&availParticipants, "participants", "", "Comma-separated participant UUIDs (required)")
		cmd.Flags().StringVar(&availFrom, "from", "", "Window start, RFC 3339 (required)")
		cmd.Flags().StringVar(&availTo, "to", "", "Window end, RFC 3339 (required)")
		rootCmd.AddCommand(cmd)
	}
	slotsCmd.Flags().IntVar(&availDuration, "duration", 60, "Slot duration in minutes")
	slotsCmd.Flags().IntVar(&availHoursStart, "hours-start", 0, "Working hours start (0-23, 0 = default)")
	slotsCmd.Flags().IntVar(&availHoursEnd, "hours-end", 0, "Working hours end (0-24, 0 = default)")
}

func runSlots(_ *cobra.Command, _ []string) error {
	database, participants, from, to, err := availabilitySetup()
	if err != nil {
		return err
	}
	defer database.Close()

	finder := scheduling.NewSlotFinder(database)
	slots, err := finder.FindAvailableSlots(context.Background(), participants, availDuration, from, to, scheduling.SlotOptions{
		WorkingHoursStart: availHoursStart,
		WorkingHoursEnd:   availHoursEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to find slots: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintSlots(slots)
	return nil
}

func runLoad(_ *cobra.Command, _ []string) error {
	database, participants, from, to, err := availabilitySetup()
	if err != nil {
		return err
	}
	defer database.Close()

	balancer := scheduling.NewLoadBalancer(database)
	load, err := balancer.GetLoad(context.Background(), participants, from, to)
	if err != nil {
		return fmt.Errorf("failed to get panel load: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintLoad(load, from, to)
	return nil
}

// availabilitySetup parses the flags shared by slots and load and opens the
// database. The caller closes the returned connection.
func availabilitySetup() (*db.DB, []uuid.UUID, time.Time, time.Time, error) {
	var zero time.Time

	participants, err := parseParticipants(availParticipants)
	if err != nil {
		return nil, nil, zero, zero, err
	}

	from, err := time.Parse(time.RFC3339, availFrom)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse(time.RFC3339, availTo)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("invalid --to: %w", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, nil, zero, zero, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(context.Background(), databaseURL)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("failed to connect to database: %w", err)
	}

	return database, participants, from, to, nil
}

func parseParticipants(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, fmt.Errorf("--participants is required")
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid participant ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("--participants is required")
	}
	return ids, nil
}
