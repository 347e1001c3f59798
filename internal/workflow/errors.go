// Package workflow implements the role-gated state machine that governs
// candidate progression through the hiring pipeline.
package workflow

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ErrApplicationNotFound indicates the application does not exist.
type ErrApplicationNotFound struct {
	ID uuid.UUID
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application not found: %s", e.ID)
}

// ErrNoSuchTransition indicates no rule allows moving between the two stages.
type ErrNoSuchTransition struct {
	From types.Stage
	To   types.Stage
}

func (e *ErrNoSuchTransition) Error() string {
	return fmt.Sprintf("no transition from %s to %s", e.From, e.To)
}

// ErrRoleNotPermitted indicates the actor's role may not perform the transition.
type ErrRoleNotPermitted struct {
	Role types.Role
	From types.Stage
	To   types.Stage
}

func (e *ErrRoleNotPermitted) Error() string {
	return fmt.Sprintf("role %s may not move %s to %s", e.Role, e.From, e.To)
}

// ErrNoteRequired indicates the transition requires a non-empty comment.
type ErrNoteRequired struct {
	From types.Stage
	To   types.Stage
}

func (e *ErrNoteRequired) Error() string {
	return fmt.Sprintf("moving %s to %s requires a note", e.From, e.To)
}

// ErrReasonCategoryRequired indicates a backward transition is missing its
// reason category.
type ErrReasonCategoryRequired struct {
	From types.Stage
	To   types.Stage
}

func (e *ErrReasonCategoryRequired) Error() string {
	return fmt.Sprintf("moving %s back to %s requires a reason category", e.From, e.To)
}

// ErrScorecardsIncomplete indicates the transition requires all scorecards
// for the application's most recent interview to be submitted.
type ErrScorecardsIncomplete struct {
	From types.Stage
	To   types.Stage
}

func (e *ErrScorecardsIncomplete) Error() string {
	return fmt.Sprintf("moving %s to %s requires all scorecards submitted", e.From, e.To)
}

// ErrStageConflict indicates a concurrent writer changed the application's
// stage between read and write. The caller should re-read and retry.
type ErrStageConflict struct {
	ID uuid.UUID
}

func (e *ErrStageConflict) Error() string {
	return fmt.Sprintf("application %s was modified concurrently", e.ID)
}

// ErrAlreadyRejected indicates the application has already been rejected.
type ErrAlreadyRejected struct {
	ID uuid.UUID
}

func (e *ErrAlreadyRejected) Error() string {
	return fmt.Sprintf("application already rejected: %s", e.ID)
}

// ErrNotActive indicates the application is in a terminal status and cannot
// be rejected or moved.
type ErrNotActive struct {
	ID     uuid.UUID
	Status types.ApplicationStatus
}

func (e *ErrNotActive) Error() string {
	return fmt.Sprintf("application %s is %s, not ACTIVE", e.ID, e.Status)
}
