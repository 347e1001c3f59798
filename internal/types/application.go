package types

import (
	"time"

	"github.com/google/uuid"
)

// Application represents a candidate's application moving through the pipeline.
// Version is the optimistic-concurrency token: every stage write is conditional
// on the version the caller read.
type Application struct {
	ID            uuid.UUID         `json:"id"`
	CandidateName string            `json:"candidate_name"`
	RequisitionID uuid.UUID         `json:"requisition_id"`
	Stage         Stage             `json:"stage"`
	Status        ApplicationStatus `json:"status"`
	RejectedAt    *time.Time        `json:"rejected_at,omitempty"`
	Version       int64             `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// Note is a free-text comment attached to an application, tagged with the
// stages involved when it was produced by a stage move.
type Note struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	AuthorID      uuid.UUID `json:"author_id"`
	Body          string    `json:"body"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
