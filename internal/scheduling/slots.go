package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

const (
	// slotGranularity is the spacing between candidate slot start times.
	slotGranularity = 30 * time.Minute
	// maxSlots caps the number of available slots returned per query.
	maxSlots = 20

	defaultWorkingHoursStart = 9
	defaultWorkingHoursEnd   = 17
)

// SlotOptions tunes the working-hours window for slot generation. Zero
// values fall back to 9–17.
type SlotOptions struct {
	WorkingHoursStart int
	WorkingHoursEnd   int
}

func (o SlotOptions) normalize() (int, int, error) {
	start, end := o.WorkingHoursStart, o.WorkingHoursEnd
	if start == 0 && end == 0 {
		start, end = defaultWorkingHoursStart, defaultWorkingHoursEnd
	}
	if start < 0 || end > 24 || start >= end {
		return 0, 0, &ErrInvalidInterval{Detail: fmt.Sprintf("working hours %d-%d", start, end)}
	}
	return start, end, nil
}

// SlotFinder discovers open time slots for a panel by exhaustive
// generate-and-filter over a day grid. Cost is O(days x slots_per_day x
// bookings), fine for hiring-panel horizons of weeks; calendar-wide scans
// want a free-gap computation over sorted bookings instead.
type SlotFinder struct {
	bookings BookingSource
}

// NewSlotFinder creates a SlotFinder over the given booking source.
func NewSlotFinder(bookings BookingSource) *SlotFinder {
	return &SlotFinder{bookings: bookings}
}

// FindAvailableSlots returns up to maxSlots open slots of the requested
// duration within [searchFrom, searchTo), in chronological order. Slots
// start on the half hour within working hours, never on weekends, and never
// run past the end of working hours. Bookings are fetched once for the whole
// window, not per slot.
func (f *SlotFinder) FindAvailableSlots(ctx context.Context, participantIDs []uuid.UUID, durationMinutes int, searchFrom, searchTo time.Time, opts SlotOptions) ([]types.Slot, error) {
	if durationMinutes <= 0 {
		return nil, &ErrInvalidInterval{Detail: fmt.Sprintf("duration %d minutes", durationMinutes)}
	}
	if !searchFrom.Before(searchTo) {
		return nil, &ErrInvalidInterval{Detail: "search window is empty"}
	}
	hoursStart, hoursEnd, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	bookings, err := f.bookings.ListBookings(ctx, participantIDs, searchFrom, searchTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	var slots []types.Slot

	day := time.Date(searchFrom.Year(), searchFrom.Month(), searchFrom.Day(), 0, 0, 0, 0, searchFrom.Location())
	for ; day.Before(searchTo) && len(slots) < maxSlots; day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		dayStart := day.Add(time.Duration(hoursStart) * time.Hour)
		dayEnd := day.Add(time.Duration(hoursEnd) * time.Hour)

		for start := dayStart; len(slots) < maxSlots; start = start.Add(slotGranularity) {
			end := start.Add(duration)
			if end.After(dayEnd) {
				break
			}
			if start.Before(searchFrom) || end.After(searchTo) {
				continue
			}
			if conflicts := FindConflicts(participantIDs, start, end, bookings); len(conflicts) > 0 {
				continue
			}
			slots = append(slots, types.Slot{Start: start, End: end, Available: true})
		}
	}

	return slots, nil
}
