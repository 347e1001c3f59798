// Package sweeper periodically marks scorecards OVERDUE once their due time
// has passed. Due times are data, not execution timeouts; the sweep is the
// only background work the system runs.
package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"
)

// defaultInterval is how often the sweep runs when the config does not say.
const defaultInterval = 5 * time.Minute

// ScorecardSweepStore marks every unsubmitted scorecard whose due time has
// passed as OVERDUE and reports how many rows changed.
type ScorecardSweepStore interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper runs the periodic overdue sweep.
type Sweeper struct {
	store    ScorecardSweepStore
	interval time.Duration
	now      func() time.Time
}

// New creates a Sweeper. interval <= 0 falls back to the default.
func New(store ScorecardSweepStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{store: store, interval: interval, now: time.Now}
}

// SweepOnce marks overdue scorecards as of now and returns the count.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.store.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue scorecards: %w", err)
	}
	return n, nil
}

// Run sweeps on the configured interval until the context is cancelled.
// Sweep failures are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				log.Printf("scorecard sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("scorecard sweep marked %d overdue", n)
			}
		}
	}
}
