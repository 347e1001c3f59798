package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// defaultFeedbackDue is how long after an interview ends its scorecards are
// due.
const defaultFeedbackDue = 24 * time.Hour

// ApplicationGetter checks application existence for scheduling requests.
type ApplicationGetter interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
}

// InterviewStore is the persistence collaborator for interviews. Getters
// return (nil, nil) when the entity is absent.
type InterviewStore interface {
	GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error)
	CreateInterview(ctx context.Context, iv *types.Interview) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, start, end time.Time, outcome types.InterviewOutcome) (*types.Interview, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, outcome types.InterviewOutcome) (*types.Interview, error)
}

// ScorecardStore is the persistence collaborator for scorecards. Scorecards
// are never deleted; cancellation marks them CANCELLED.
type ScorecardStore interface {
	CreateScorecards(ctx context.Context, cards []types.Scorecard) error
	GetScorecard(ctx context.Context, id uuid.UUID) (*types.Scorecard, error)
	ListScorecardsByInterview(ctx context.Context, interviewID uuid.UUID) ([]types.Scorecard, error)
	SetScorecardStatus(ctx context.Context, id uuid.UUID, status types.ScorecardStatus, submittedAt *time.Time) error
	CancelScorecardsByInterview(ctx context.Context, interviewID uuid.UUID) error
	SetDueAtByInterview(ctx context.Context, interviewID uuid.UUID, dueAt time.Time) error
	MarkOverdueByInterview(ctx context.Context, interviewID uuid.UUID, now time.Time) (int64, error)
}

// AuditLog records immutable state-change entries.
type AuditLog interface {
	RecordAudit(ctx context.Context, rec types.AuditRecord) error
}

// Engine orchestrates the interview lifecycle: SCHEDULED, RESCHEDULED
// (self-loop on times), CANCELLED, COMPLETED. No transitions leave CANCELLED
// or COMPLETED.
type Engine struct {
	apps        ApplicationGetter
	interviews  InterviewStore
	scorecards  ScorecardStore
	bookings    BookingSource
	audit       AuditLog
	locks       *participantLocks
	feedbackDue time.Duration
	now         func() time.Time
}

// NewEngine creates a scheduling Engine. feedbackDue <= 0 falls back to 24h.
func NewEngine(apps ApplicationGetter, interviews InterviewStore, scorecards ScorecardStore, bookings BookingSource, audit AuditLog, feedbackDue time.Duration) *Engine {
	if feedbackDue <= 0 {
		feedbackDue = defaultFeedbackDue
	}
	return &Engine{
		apps:        apps,
		interviews:  interviews,
		scorecards:  scorecards,
		bookings:    bookings,
		audit:       audit,
		locks:       newParticipantLocks(),
		feedbackDue: feedbackDue,
		now:         time.Now,
	}
}

// ScheduleInterview books a new interview. The conflict check and the insert
// run under per-participant locks so concurrent calls sharing a panelist
// serialize; at most one of two overlapping requests can succeed. On
// ErrPanelConflict nothing is mutated and the caller should query
// FindAvailableSlots to recover.
func (e *Engine) ScheduleInterview(ctx context.Context, req types.ScheduleInterviewRequest, actor types.Actor) (*types.Interview, error) {
	if !req.Start.Before(req.End) {
		return nil, &ErrInvalidInterval{Detail: "start must precede end"}
	}

	app, err := e.apps.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, &ErrApplicationNotFound{ID: req.ApplicationID}
	}

	panelIDs := panelIDs(req.Panel)
	unlock := e.locks.lockAll(panelIDs)
	defer unlock()

	bookings, err := e.bookings.ListBookings(ctx, panelIDs, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if conflicts := FindConflicts(panelIDs, req.Start, req.End, bookings); len(conflicts) > 0 {
		return nil, &ErrPanelConflict{Conflicts: conflicts}
	}

	now := e.now()
	iv := &types.Interview{
		ID:             uuid.New(),
		ApplicationID:  req.ApplicationID,
		Type:           req.Type,
		Panel:          req.Panel,
		ScheduledStart: req.Start,
		ScheduledEnd:   req.End,
		Location:       req.Location,
		MeetingLink:    req.MeetingLink,
		Outcome:        types.OutcomeScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.interviews.CreateInterview(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	dueAt := req.End.Add(e.feedbackDue)
	cards := make([]types.Scorecard, 0, len(req.Panel))
	for _, member := range req.Panel {
		cards = append(cards, types.Scorecard{
			ID:            uuid.New(),
			InterviewID:   iv.ID,
			InterviewerID: member.UserID,
			Status:        types.ScorecardPending,
			DueAt:         dueAt,
		})
	}
	if err := e.scorecards.CreateScorecards(ctx, cards); err != nil {
		return nil, fmt.Errorf("failed to create scorecards: %w", err)
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectInterview,
		ObjectID:   iv.ID,
		Action:     types.AuditActionScheduled,
		ToValue:    formatInterval(req.Start, req.End),
		ActorID:    actor.ID,
		CreatedAt:  now,
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return iv, nil
}

// RescheduleInterview moves an interview to a new interval, keeping its
// panel. The conflict check excludes the interview's own bookings. The new
// feedback due time propagates to all associated scorecards.
func (e *Engine) RescheduleInterview(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time, reason string, actor types.Actor) (*types.Interview, error) {
	if !newStart.Before(newEnd) {
		return nil, &ErrInvalidInterval{Detail: "start must precede end"}
	}

	iv, err := e.interviews.GetInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if iv == nil {
		return nil, &ErrInterviewNotFound{ID: id}
	}
	if iv.Outcome == types.OutcomeCancelled {
		return nil, &ErrAlreadyCancelled{ID: id}
	}
	if iv.Outcome == types.OutcomeCompleted {
		return nil, &ErrInterviewClosed{ID: id, Outcome: iv.Outcome}
	}

	panelIDs := panelIDs(iv.Panel)
	unlock := e.locks.lockAll(panelIDs)
	defer unlock()

	bookings, err := e.bookings.ListBookings(ctx, panelIDs, newStart, newEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	others := bookings[:0:0]
	for _, b := range bookings {
		if b.InterviewID != id {
			others = append(others, b)
		}
	}
	if conflicts := FindConflicts(panelIDs, newStart, newEnd, others); len(conflicts) > 0 {
		return nil, &ErrPanelConflict{Conflicts: conflicts}
	}

	oldInterval := formatInterval(iv.ScheduledStart, iv.ScheduledEnd)
	updated, err := e.interviews.UpdateSchedule(ctx, id, newStart, newEnd, types.OutcomeRescheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to update interview schedule: %w", err)
	}
	if updated == nil {
		return nil, &ErrInterviewNotFound{ID: id}
	}

	if err := e.scorecards.SetDueAtByInterview(ctx, id, newEnd.Add(e.feedbackDue)); err != nil {
		return nil, fmt.Errorf("failed to propagate feedback due time: %w", err)
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectInterview,
		ObjectID:   id,
		Action:     types.AuditActionRescheduled,
		FromValue:  oldInterval,
		ToValue:    formatInterval(newStart, newEnd),
		ActorID:    actor.ID,
		Comment:    reason,
		CreatedAt:  e.now(),
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return updated, nil
}

// CancelInterview marks an interview cancelled and its unsubmitted
// scorecards CANCELLED. Cancelling twice is an error, not a no-op.
func (e *Engine) CancelInterview(ctx context.Context, id uuid.UUID, reason string, actor types.Actor) error {
	iv, err := e.interviews.GetInterview(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load interview: %w", err)
	}
	if iv == nil {
		return &ErrInterviewNotFound{ID: id}
	}
	if iv.Outcome == types.OutcomeCancelled {
		return &ErrAlreadyCancelled{ID: id}
	}
	if iv.Outcome == types.OutcomeCompleted {
		return &ErrInterviewClosed{ID: id, Outcome: iv.Outcome}
	}

	if _, err := e.interviews.UpdateOutcome(ctx, id, types.OutcomeCancelled); err != nil {
		return fmt.Errorf("failed to cancel interview: %w", err)
	}
	if err := e.scorecards.CancelScorecardsByInterview(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel scorecards: %w", err)
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectInterview,
		ObjectID:   id,
		Action:     types.AuditActionCancelled,
		FromValue:  string(iv.Outcome),
		ToValue:    string(types.OutcomeCancelled),
		ActorID:    actor.ID,
		Comment:    reason,
		CreatedAt:  e.now(),
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// CompleteInterview marks an interview completed. Scorecards past their due
// time that were never worked move to OVERDUE; completion does not require
// every scorecard submitted.
func (e *Engine) CompleteInterview(ctx context.Context, id uuid.UUID, actor types.Actor) error {
	iv, err := e.interviews.GetInterview(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load interview: %w", err)
	}
	if iv == nil {
		return &ErrInterviewNotFound{ID: id}
	}
	if iv.Outcome == types.OutcomeCancelled {
		return &ErrAlreadyCancelled{ID: id}
	}
	if iv.Outcome == types.OutcomeCompleted {
		return &ErrInterviewClosed{ID: id, Outcome: iv.Outcome}
	}

	if _, err := e.scorecards.MarkOverdueByInterview(ctx, id, e.now()); err != nil {
		return fmt.Errorf("failed to mark overdue scorecards: %w", err)
	}
	if _, err := e.interviews.UpdateOutcome(ctx, id, types.OutcomeCompleted); err != nil {
		return fmt.Errorf("failed to complete interview: %w", err)
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectInterview,
		ObjectID:   id,
		Action:     types.AuditActionCompleted,
		FromValue:  string(iv.Outcome),
		ToValue:    string(types.OutcomeCompleted),
		ActorID:    actor.ID,
		CreatedAt:  e.now(),
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// SubmitScorecard records one panelist's feedback submission. Submitting a
// CANCELLED or already SUBMITTED scorecard is refused; OVERDUE submissions
// are still accepted, just late.
func (e *Engine) SubmitScorecard(ctx context.Context, id uuid.UUID, actor types.Actor) (*types.Scorecard, error) {
	card, err := e.scorecards.GetScorecard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load scorecard: %w", err)
	}
	if card == nil {
		return nil, &ErrScorecardNotFound{ID: id}
	}
	if card.Status == types.ScorecardSubmitted || card.Status == types.ScorecardCancelled {
		return nil, &ErrScorecardClosed{ID: id, Status: card.Status}
	}

	now := e.now()
	if err := e.scorecards.SetScorecardStatus(ctx, id, types.ScorecardSubmitted, &now); err != nil {
		return nil, fmt.Errorf("failed to submit scorecard: %w", err)
	}

	rec := types.AuditRecord{
		ObjectType: types.AuditObjectScorecard,
		ObjectID:   id,
		Action:     types.AuditActionScorecardSubmitted,
		FromValue:  string(card.Status),
		ToValue:    string(types.ScorecardSubmitted),
		ActorID:    actor.ID,
		CreatedAt:  now,
	}
	if err := e.audit.RecordAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	card.Status = types.ScorecardSubmitted
	card.SubmittedAt = &now
	return card, nil
}

func panelIDs(panel []types.PanelMember) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(panel))
	for _, m := range panel {
		ids = append(ids, m.UserID)
	}
	return ids
}

func formatInterval(start, end time.Time) string {
	return start.UTC().Format(time.RFC3339) + "/" + end.UTC().Format(time.RFC3339)
}
