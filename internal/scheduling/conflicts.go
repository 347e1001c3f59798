package scheduling

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// BookingSource lists the time commitments of participants derived from
// non-cancelled interviews. Implementations fetch once per query window;
// callers reuse the result across many interval probes.
type BookingSource interface {
	ListBookings(ctx context.Context, participantIDs []uuid.UUID, from, to time.Time) ([]types.Booking, error)
}

// FindConflicts returns the participants among participantIDs that have at
// least one booking overlapping the half-open interval [start, end). A
// booking ending exactly at start, or starting exactly at end, does not
// conflict. The result is deduplicated and sorted for deterministic output.
func FindConflicts(participantIDs []uuid.UUID, start, end time.Time, bookings []types.Booking) []uuid.UUID {
	requested := make(map[uuid.UUID]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		requested[id] = struct{}{}
	}

	conflicted := make(map[uuid.UUID]struct{})
	for _, b := range bookings {
		if _, ok := requested[b.ParticipantID]; !ok {
			continue
		}
		if b.Overlaps(start, end) {
			conflicted[b.ParticipantID] = struct{}{}
		}
	}

	if len(conflicted) == 0 {
		return nil
	}

	out := make([]uuid.UUID, 0, len(conflicted))
	for id := range conflicted {
		out = append(out, id)
	}
	sortUUIDs(out)
	return out
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
