package types

import (
	"time"

	"github.com/google/uuid"
)

// AuditObjectType identifies which entity an audit record describes.
type AuditObjectType string

// Audited object types.
const (
	AuditObjectApplication AuditObjectType = "APPLICATION"
	AuditObjectInterview   AuditObjectType = "INTERVIEW"
	AuditObjectScorecard   AuditObjectType = "SCORECARD"
)

// Audit actions recorded by the engines.
const (
	AuditActionStageChanged       = "stage_changed"
	AuditActionRejected           = "rejected"
	AuditActionScheduled          = "scheduled"
	AuditActionRescheduled        = "rescheduled"
	AuditActionCancelled          = "cancelled"
	AuditActionCompleted          = "completed"
	AuditActionScorecardSubmitted = "scorecard_submitted"
)

// AuditRecord is an immutable log entry for a state change. Records are
// emitted only after the change has been persisted.
type AuditRecord struct {
	ID             uuid.UUID       `json:"id"`
	ObjectType     AuditObjectType `json:"object_type"`
	ObjectID       uuid.UUID       `json:"object_id"`
	Action         string          `json:"action"`
	FromValue      string          `json:"from_value,omitempty"`
	ToValue        string          `json:"to_value,omitempty"`
	ActorID        uuid.UUID       `json:"actor_id"`
	Comment        string          `json:"comment,omitempty"`
	ReasonCategory string          `json:"reason_category,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
