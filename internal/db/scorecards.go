package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

const scorecardColumns = `id, interview_id, interviewer_id, status, due_at, submitted_at`

func scanScorecard(row pgx.Row) (*types.Scorecard, error) {
	var c types.Scorecard
	err := row.Scan(&c.ID, &c.InterviewID, &c.InterviewerID, &c.Status, &c.DueAt, &c.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateScorecards inserts one scorecard per panelist in a single transaction.
func (db *DB) CreateScorecards(ctx context.Context, cards []types.Scorecard) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, c := range cards {
		_, err = tx.Exec(ctx,
			`INSERT INTO scorecards (id, interview_id, interviewer_id, status, due_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.InterviewID, c.InterviewerID, c.Status, c.DueAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert scorecard: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scorecards: %w", err)
	}
	return nil
}

// GetScorecard retrieves a scorecard by ID. Returns (nil, nil) when absent.
func (db *DB) GetScorecard(ctx context.Context, id uuid.UUID) (*types.Scorecard, error) {
	c, err := scanScorecard(db.pool.QueryRow(ctx,
		`SELECT `+scorecardColumns+` FROM scorecards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scorecard: %w", err)
	}
	return c, nil
}

// ListScorecardsByInterview retrieves all scorecards for an interview.
func (db *DB) ListScorecardsByInterview(ctx context.Context, interviewID uuid.UUID) ([]types.Scorecard, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+scorecardColumns+` FROM scorecards WHERE interview_id = $1 ORDER BY interviewer_id`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scorecards: %w", err)
	}
	defer rows.Close()

	var cards []types.Scorecard
	for rows.Next() {
		c, err := scanScorecard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scorecard: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, nil
}

// SetScorecardStatus updates one scorecard's status and submission time.
func (db *DB) SetScorecardStatus(ctx context.Context, id uuid.UUID, status types.ScorecardStatus, submittedAt *time.Time) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE scorecards SET status = $1, submitted_at = $2 WHERE id = $3`,
		status, submittedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update scorecard status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("scorecard not found: %s", id)
	}
	return nil
}

// CancelScorecardsByInterview marks every unsubmitted scorecard of an
// interview CANCELLED. Submitted feedback is kept.
func (db *DB) CancelScorecardsByInterview(ctx context.Context, interviewID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE scorecards SET status = $1
		 WHERE interview_id = $2 AND status <> $3`,
		types.ScorecardCancelled, interviewID, types.ScorecardSubmitted,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel scorecards: %w", err)
	}
	return nil
}

// SetDueAtByInterview propagates a new feedback due time to every scorecard
// of an interview.
func (db *DB) SetDueAtByInterview(ctx context.Context, interviewID uuid.UUID, dueAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE scorecards SET due_at = $1 WHERE interview_id = $2`,
		dueAt, interviewID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scorecard due times: %w", err)
	}
	return nil
}

// MarkOverdueByInterview marks an interview's unworked scorecards past their
// due time OVERDUE and returns how many changed.
func (db *DB) MarkOverdueByInterview(ctx context.Context, interviewID uuid.UUID, now time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE scorecards SET status = $1
		 WHERE interview_id = $2 AND due_at < $3 AND status IN ($4, $5)`,
		types.ScorecardOverdue, interviewID, now,
		types.ScorecardPending, types.ScorecardInProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue scorecards: %w", err)
	}
	return result.RowsAffected(), nil
}

// MarkOverdue marks every unworked scorecard past its due time OVERDUE,
// across all interviews. Used by the periodic sweep.
func (db *DB) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE scorecards SET status = $1
		 WHERE due_at < $2 AND status IN ($3, $4)`,
		types.ScorecardOverdue, now,
		types.ScorecardPending, types.ScorecardInProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue scorecards: %w", err)
	}
	return result.RowsAffected(), nil
}

// AllScorecardsSubmitted reports whether every scorecard of the
// application's most recent non-cancelled interview has been submitted.
// Cancelled scorecards do not block. Returns false when the application has
// no interview yet.
func (db *DB) AllScorecardsSubmitted(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	var interviewID uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM interviews
		 WHERE application_id = $1 AND outcome <> $2
		 ORDER BY scheduled_start DESC LIMIT 1`,
		applicationID, types.OutcomeCancelled,
	).Scan(&interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find latest interview: %w", err)
	}

	var open int
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM scorecards
		 WHERE interview_id = $1 AND status NOT IN ($2, $3)`,
		interviewID, types.ScorecardSubmitted, types.ScorecardCancelled,
	).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("failed to count open scorecards: %w", err)
	}
	return open == 0, nil
}
