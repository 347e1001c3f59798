package types

import (
	"time"

	"github.com/google/uuid"
)

// InterviewOutcome represents the lifecycle state of an interview.
type InterviewOutcome string

// Interview outcomes. CANCELLED and COMPLETED are terminal.
const (
	OutcomeScheduled   InterviewOutcome = "SCHEDULED"
	OutcomeRescheduled InterviewOutcome = "RESCHEDULED"
	OutcomeCancelled   InterviewOutcome = "CANCELLED"
	OutcomeCompleted   InterviewOutcome = "COMPLETED"
)

// IsTerminal reports whether the outcome permits no further transitions.
func (o InterviewOutcome) IsTerminal() bool {
	return o == OutcomeCancelled || o == OutcomeCompleted
}

// PanelMember is one interviewer on an interview's panel. The panel is fixed
// at creation; changing composition means cancel and recreate.
type PanelMember struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role,omitempty"`
}

// Interview represents a scheduled interview for one application.
type Interview struct {
	ID             uuid.UUID        `json:"id"`
	ApplicationID  uuid.UUID        `json:"application_id"`
	Type           string           `json:"type"`
	Panel          []PanelMember    `json:"panel"`
	ScheduledStart time.Time        `json:"scheduled_start"`
	ScheduledEnd   time.Time        `json:"scheduled_end"`
	Location       string           `json:"location,omitempty"`
	MeetingLink    string           `json:"meeting_link,omitempty"`
	Outcome        InterviewOutcome `json:"outcome"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ScorecardStatus represents the lifecycle state of a scorecard.
type ScorecardStatus string

// Scorecard statuses. CANCELLED marks feedback made moot by interview
// cancellation, distinct from OVERDUE which marks feedback that is late.
const (
	ScorecardPending    ScorecardStatus = "PENDING"
	ScorecardInProgress ScorecardStatus = "IN_PROGRESS"
	ScorecardSubmitted  ScorecardStatus = "SUBMITTED"
	ScorecardOverdue    ScorecardStatus = "OVERDUE"
	ScorecardCancelled  ScorecardStatus = "CANCELLED"
)

// Scorecard is one panelist's structured feedback record for one interview.
// Scorecards are never deleted.
type Scorecard struct {
	ID            uuid.UUID       `json:"id"`
	InterviewID   uuid.UUID       `json:"interview_id"`
	InterviewerID uuid.UUID       `json:"interviewer_id"`
	Status        ScorecardStatus `json:"status"`
	DueAt         time.Time       `json:"due_at"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
}

// Booking is the time commitment one participant has for one interview,
// derived from all non-cancelled interviews. Intervals are half-open:
// [Start, End).
type Booking struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	InterviewID   uuid.UUID `json:"interview_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect. A booking
// ending exactly when another starts is not an overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Slot is a candidate time interval evaluated for availability across a panel.
type Slot struct {
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Available bool        `json:"available"`
	Conflicts []uuid.UUID `json:"conflicts,omitempty"`
}
