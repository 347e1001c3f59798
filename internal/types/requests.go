package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MoveStageRequest represents a request to move one application to a new stage.
type MoveStageRequest struct {
	ToStage        Stage  `json:"to_stage" validate:"required"`
	Comment        string `json:"comment,omitempty"`
	ReasonCategory string `json:"reason_category,omitempty"`
}

// BulkMoveStageRequest represents a request to move several applications to
// the same stage. Per-application failure does not abort the batch.
type BulkMoveStageRequest struct {
	ApplicationIDs []uuid.UUID `json:"application_ids" validate:"required,min=1,dive,required"`
	ToStage        Stage       `json:"to_stage" validate:"required"`
	Comment        string      `json:"comment,omitempty"`
}

// RejectRequest represents a request to reject an application.
type RejectRequest struct {
	Reason   string `json:"reason" validate:"required,min=1"`
	Feedback string `json:"feedback,omitempty"`
}

// ScheduleInterviewRequest represents a request to schedule a new interview.
type ScheduleInterviewRequest struct {
	ApplicationID uuid.UUID     `json:"application_id" validate:"required"`
	Type          string        `json:"type" validate:"required,min=1"`
	Panel         []PanelMember `json:"panel" validate:"required,min=1"`
	Start         time.Time     `json:"start" validate:"required"`
	End           time.Time     `json:"end" validate:"required,gtfield=Start"`
	Location      string        `json:"location,omitempty"`
	MeetingLink   string        `json:"meeting_link,omitempty"`
}

// RescheduleInterviewRequest represents a request to move an interview to a
// new time. The panel is unchanged.
type RescheduleInterviewRequest struct {
	NewStart time.Time `json:"new_start" validate:"required"`
	NewEnd   time.Time `json:"new_end" validate:"required,gtfield=NewStart"`
	Reason   string    `json:"reason,omitempty"`
}

// CancelInterviewRequest represents a request to cancel an interview.
type CancelInterviewRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// FindSlotsRequest represents a slot-discovery query for a panel.
type FindSlotsRequest struct {
	ParticipantIDs    []uuid.UUID `json:"participant_ids" validate:"required,min=1"`
	DurationMinutes   int         `json:"duration_minutes" validate:"required,min=15,max=480"`
	SearchFrom        time.Time   `json:"search_from" validate:"required"`
	SearchTo          time.Time   `json:"search_to" validate:"required,gtfield=SearchFrom"`
	WorkingHoursStart int         `json:"working_hours_start,omitempty" validate:"omitempty,min=0,max=23"`
	WorkingHoursEnd   int         `json:"working_hours_end,omitempty" validate:"omitempty,min=1,max=24"`
}

// PanelLoadRequest represents a booking-count query over a window.
type PanelLoadRequest struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids" validate:"required,min=1"`
	From           time.Time   `json:"from" validate:"required"`
	To             time.Time   `json:"to" validate:"required,gtfield=From"`
}

// SuggestPanelRequest represents a request for the least-loaded panel drawn
// from a pool of interviewers.
type SuggestPanelRequest struct {
	Pool          []uuid.UUID `json:"pool" validate:"required,min=1"`
	RequiredSize  int         `json:"required_size" validate:"required,min=1"`
	InterviewDate time.Time   `json:"interview_date" validate:"required"`
	LookbackDays  int         `json:"lookback_days,omitempty" validate:"omitempty,min=1,max=365"`
}

// Validate validates the MoveStageRequest using the validator.
func (r *MoveStageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BulkMoveStageRequest using the validator.
func (r *BulkMoveStageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RejectRequest using the validator.
func (r *RejectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ScheduleInterviewRequest using the validator.
func (r *ScheduleInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RescheduleInterviewRequest using the validator.
func (r *RescheduleInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CancelInterviewRequest using the validator.
func (r *CancelInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FindSlotsRequest using the validator.
func (r *FindSlotsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PanelLoadRequest using the validator.
func (r *PanelLoadRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SuggestPanelRequest using the validator.
func (r *SuggestPanelRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
