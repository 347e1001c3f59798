package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// maxBulkConcurrency bounds parallel stage moves in a bulk request.
const maxBulkConcurrency = 8

// ApplicationStore is the persistence collaborator for applications.
// Getters return (nil, nil) when the entity is absent. Conditional writers
// return (nil, nil) when the version guard did not match any row.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	UpdateStage(ctx context.Context, id uuid.UUID, from, to types.Stage, expectedVersion int64) (*types.Application, error)
	MarkRejected(ctx context.Context, id uuid.UUID, rejectedAt time.Time, expectedVersion int64) (*types.Application, error)
}

// ScorecardOracle answers whether every scorecard for an application's most
// recent interview has been submitted. Owned by the scheduling side; the
// workflow engine treats it as a boolean oracle.
type ScorecardOracle interface {
	AllScorecardsSubmitted(ctx context.Context, applicationID uuid.UUID) (bool, error)
}

// AuditLog records immutable state-change entries.
type AuditLog interface {
	RecordAudit(ctx context.Context, rec types.AuditRecord) error
}

// NoteStore persists notes attached to applications.
type NoteStore interface {
	CreateNote(ctx context.Context, note types.Note) error
}

// Engine orchestrates stage changes for applications.
type Engine struct {
	graph     *Graph
	validator *Validator
	apps      ApplicationStore
	oracle    ScorecardOracle
	audit     AuditLog
	notes     NoteStore
	now       func() time.Time
}

// NewEngine creates a workflow Engine over the given transition graph and
// collaborators.
func NewEngine(graph *Graph, apps ApplicationStore, oracle ScorecardOracle, audit AuditLog, notes NoteStore) *Engine {
	return &Engine{
		graph:     graph,
		validator: NewValidator(graph),
		apps:      apps,
		oracle:    oracle,
		audit:     audit,
		notes:     notes,
		now:       time.Now,
	}
}

// MoveStage moves one application to a new stage. On rejection nothing is
// mutated and no audit record is written. The write is conditional on the
// stage and version read here; a concurrent move surfaces as ErrStageConflict.
func (e *Engine) MoveStage(ctx context.Context, id uuid.UUID, to types.Stage, actor types.Actor, comment, reasonCategory string) (*types.Application, error) {
	app, err := e.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, &ErrApplicationNotFound{ID: id}
	}
	if app.Status != types.StatusActive {
		return nil, &ErrNotActive{ID: id, Status: app.Status}
	}

	// The oracle is consulted only when the rule actually gates on
	// scorecards; validation order is unaffected because the rule and role
	// checks run first either way.
	scorecardsComplete := false
	if rule, ok := e.graph.Lookup(app.Stage, to); ok && rule.RequiresScorecard {
		scorecardsComplete, err = e.oracle.AllScorecardsSubmitted(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check scorecard completion: %w", err)
		}
	}

	tc := TransitionContext{
		Comment:            comment,
		ReasonCategory:     reasonCategory,
		ScorecardsComplete: scorecardsComplete,
	}
	if err := e.validator.Validate(app.Stage, to, actor.Role, tc); err != nil {
		return nil, err
	}

	updated, err := e.apps.UpdateStage(ctx, id, app.Stage, to, app.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	if updated == nil {
		return nil, &ErrStageConflict{ID: id}
	}

	rec := types.AuditRecord{
		ObjectType:     types.AuditObjectApplication,
		ObjectID:       id,
		Action:         types.AuditActionStageChanged,
		FromValue:      app.Stage.String(),
		ToValue:        to.String(),
		ActorID:        actor.ID,
		Comment:        comment,
		ReasonCategory: reasonCategory,
		CreatedAt:      e.now(),
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if strings.TrimSpace(comment) != "" {
		note := types.Note{
			ApplicationID: id,
			AuthorID:      actor.ID,
			Body:          comment,
			Tags:          []string{app.Stage.String(), to.String()},
			CreatedAt:     e.now(),
		}
		if err := e.notes.CreateNote(ctx, note); err != nil {
			return nil, fmt.Errorf("failed to create note: %w", err)
		}
	}

	return updated, nil
}

// BulkFailure reports why one application in a bulk move was not moved.
type BulkFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkResult is the outcome of a bulk stage move. Succeeded and Failed
// together cover every requested id, each preserving input order.
type BulkResult struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BulkMoveStage applies MoveStage to each id independently. One id's failure
// never rolls back another's success; the batch is not transactional.
func (e *Engine) BulkMoveStage(ctx context.Context, ids []uuid.UUID, to types.Stage, actor types.Actor, comment string) (*BulkResult, error) {
	errs := make([]error, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxBulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			_, err := e.MoveStage(gCtx, id, to, actor, comment, "")
			errs[i] = err
			return nil
		})
	}
	// Workers always return nil; per-item errors are collected, not propagated.
	_ = g.Wait()

	result := &BulkResult{}
	for i, id := range ids {
		if errs[i] != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: errs[i].Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// Reject marks an ACTIVE application REJECTED. Rejection is orthogonal to
// stage: it is allowed from any stage, exactly once. Rejecting an
// already-rejected application is an error, not a no-op.
func (e *Engine) Reject(ctx context.Context, id uuid.UUID, reason, feedback string, actor types.Actor) (*types.Application, error) {
	app, err := e.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, &ErrApplicationNotFound{ID: id}
	}
	if app.Status == types.StatusRejected {
		return nil, &ErrAlreadyRejected{ID: id}
	}
	if app.Status != types.StatusActive {
		return nil, &ErrNotActive{ID: id, Status: app.Status}
	}

	updated, err := e.apps.MarkRejected(ctx, id, e.now(), app.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to mark application rejected: %w", err)
	}
	if updated == nil {
		return nil, &ErrStageConflict{ID: id}
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectApplication,
		ObjectID:   id,
		Action:     types.AuditActionRejected,
		FromValue:  string(types.StatusActive),
		ToValue:    string(types.StatusRejected),
		ActorID:    actor.ID,
		Comment:    reason,
		CreatedAt:  e.now(),
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	body := reason
	if strings.TrimSpace(feedback) != "" {
		body = feedback
	}
	note := types.Note{
		ApplicationID: id,
		AuthorID:      actor.ID,
		Body:          body,
		Tags:          []string{"rejection"},
		CreatedAt:     e.now(),
	}
	if err := e.notes.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return updated, nil
}
