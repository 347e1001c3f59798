package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// defaultLookbackDays is the window over which prior load is counted when
// suggesting a balanced panel.
const defaultLookbackDays = 30

// LoadBalancer ranks interviewers by recent booking load so panel assignment
// can favor the least-loaded people. Greedy minimization, not a globally
// optimal assignment; panel fairness is a soft constraint.
type LoadBalancer struct {
	bookings BookingSource
}

// NewLoadBalancer creates a LoadBalancer over the given booking source.
func NewLoadBalancer(bookings BookingSource) *LoadBalancer {
	return &LoadBalancer{bookings: bookings}
}

// GetLoad counts bookings per participant within [from, to). Every requested
// id appears in the result, at zero if it has no bookings.
func (l *LoadBalancer) GetLoad(ctx context.Context, participantIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]int, error) {
	if !from.Before(to) {
		return nil, &ErrInvalidInterval{Detail: "load window is empty"}
	}

	bookings, err := l.bookings.ListBookings(ctx, participantIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	load := make(map[uuid.UUID]int, len(participantIDs))
	for _, id := range participantIDs {
		load[id] = 0
	}
	for _, b := range bookings {
		if _, ok := load[b.ParticipantID]; ok {
			load[b.ParticipantID]++
		}
	}
	return load, nil
}

// SuggestBalancedPanel returns the requiredSize least-loaded participants
// from pool, measured over lookbackDays before interviewDate. The sort is
// stable: ties keep pool order. lookbackDays <= 0 uses the default window.
func (l *LoadBalancer) SuggestBalancedPanel(ctx context.Context, pool []uuid.UUID, requiredSize int, interviewDate time.Time, lookbackDays int) ([]uuid.UUID, error) {
	if requiredSize <= 0 {
		return nil, fmt.Errorf("required panel size must be positive, got %d", requiredSize)
	}
	if requiredSize > len(pool) {
		return nil, fmt.Errorf("required panel size %d exceeds pool size %d", requiredSize, len(pool))
	}
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}

	from := interviewDate.AddDate(0, 0, -lookbackDays)
	load, err := l.GetLoad(ctx, pool, from, interviewDate)
	if err != nil {
		return nil, err
	}

	ranked := append([]uuid.UUID(nil), pool...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return load[ranked[i]] < load[ranked[j]]
	})

	return ranked[:requiredSize], nil
}
