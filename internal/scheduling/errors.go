// Package scheduling implements interview scheduling: conflict detection,
// slot discovery, panelist load balancing, and the interview lifecycle.
package scheduling

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ErrApplicationNotFound indicates the application to interview does not exist.
type ErrApplicationNotFound struct {
	ID uuid.UUID
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application not found: %s", e.ID)
}

// ErrInterviewNotFound indicates the interview does not exist.
type ErrInterviewNotFound struct {
	ID uuid.UUID
}

func (e *ErrInterviewNotFound) Error() string {
	return fmt.Sprintf("interview not found: %s", e.ID)
}

// ErrScorecardNotFound indicates the scorecard does not exist.
type ErrScorecardNotFound struct {
	ID uuid.UUID
}

func (e *ErrScorecardNotFound) Error() string {
	return fmt.Sprintf("scorecard not found: %s", e.ID)
}

// ErrPanelConflict indicates one or more panel members already have a
// booking overlapping the requested interval. Recoverable: the caller should
// re-query available slots.
type ErrPanelConflict struct {
	Conflicts []uuid.UUID
}

func (e *ErrPanelConflict) Error() string {
	return fmt.Sprintf("panel members double-booked: %v", e.Conflicts)
}

// ErrAlreadyCancelled indicates the interview was already cancelled.
type ErrAlreadyCancelled struct {
	ID uuid.UUID
}

func (e *ErrAlreadyCancelled) Error() string {
	return fmt.Sprintf("interview already cancelled: %s", e.ID)
}

// ErrInterviewClosed indicates the interview is in a terminal outcome that
// forbids the requested operation.
type ErrInterviewClosed struct {
	ID      uuid.UUID
	Outcome types.InterviewOutcome
}

func (e *ErrInterviewClosed) Error() string {
	return fmt.Sprintf("interview %s is %s", e.ID, e.Outcome)
}

// ErrScorecardClosed indicates the scorecard can no longer be submitted.
type ErrScorecardClosed struct {
	ID     uuid.UUID
	Status types.ScorecardStatus
}

func (e *ErrScorecardClosed) Error() string {
	return fmt.Sprintf("scorecard %s is %s", e.ID, e.Status)
}

// ErrInvalidInterval indicates a start/end pair that is not a valid
// half-open interval.
type ErrInvalidInterval struct {
	Detail string
}

func (e *ErrInvalidInterval) Error() string {
	return fmt.Sprintf("invalid interval: %s", e.Detail)
}
