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

const interviewColumns = `id, application_id, type, scheduled_start, scheduled_end, location, meeting_link, outcome, created_at, updated_at`

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var iv types.Interview
	err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.Type, &iv.ScheduledStart,
		&iv.ScheduledEnd, &iv.Location, &iv.MeetingLink, &iv.Outcome,
		&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// CreateInterview persists an interview, its panel, and one booking row per
// panelist in a single transaction. The exclusion constraint on
// panel_bookings makes an overlapping insert for the same participant fail
// the whole transaction, so a double-booking can never land even when two
// processes pass the in-memory conflict check simultaneously.
func (db *DB) CreateInterview(ctx context.Context, iv *types.Interview) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO interviews (id, application_id, type, scheduled_start, scheduled_end, location, meeting_link, outcome, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		iv.ID, iv.ApplicationID, iv.Type, iv.ScheduledStart, iv.ScheduledEnd,
		iv.Location, iv.MeetingLink, iv.Outcome, iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interview: %w", err)
	}

	for _, m := range iv.Panel {
		_, err = tx.Exec(ctx,
			`INSERT INTO interview_panelists (interview_id, user_id, name, role)
			 VALUES ($1, $2, $3, $4)`,
			iv.ID, m.UserID, m.Name, m.Role,
		)
		if err != nil {
			return fmt.Errorf("failed to insert panelist: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO panel_bookings (interview_id, participant_id, during)
			 VALUES ($1, $2, tstzrange($3, $4, '[)'))`,
			iv.ID, m.UserID, iv.ScheduledStart, iv.ScheduledEnd,
		)
		if err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit interview: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview and its panel. Returns (nil, nil) when absent.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT user_id, name, role FROM interview_panelists WHERE interview_id = $1 ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list panelists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m types.PanelMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan panelist: %w", err)
		}
		iv.Panel = append(iv.Panel, m)
	}
	return iv, nil
}

// UpdateSchedule moves an interview to a new interval and outcome, keeping
// its booking rows in step inside one transaction. Returns (nil, nil) when
// the interview does not exist.
func (db *DB) UpdateSchedule(ctx context.Context, id uuid.UUID, start, end time.Time, outcome types.InterviewOutcome) (*types.Interview, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	iv, err := scanInterview(tx.QueryRow(ctx,
		`UPDATE interviews
		 SET scheduled_start = $1, scheduled_end = $2, outcome = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+interviewColumns,
		start, end, outcome, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update interview schedule: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE panel_bookings SET during = tstzrange($1, $2, '[)') WHERE interview_id = $3`,
		start, end, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update bookings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reschedule: %w", err)
	}
	return iv, nil
}

// UpdateOutcome sets an interview's outcome. Cancellation also releases the
// panel's booking rows so cancelled interviews never count as conflicts.
// Returns (nil, nil) when the interview does not exist.
func (db *DB) UpdateOutcome(ctx context.Context, id uuid.UUID, outcome types.InterviewOutcome) (*types.Interview, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	iv, err := scanInterview(tx.QueryRow(ctx,
		`UPDATE interviews SET outcome = $1, updated_at = NOW() WHERE id = $2
		 RETURNING `+interviewColumns,
		outcome, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update interview outcome: %w", err)
	}

	if outcome == types.OutcomeCancelled {
		if _, err := tx.Exec(ctx, `DELETE FROM panel_bookings WHERE interview_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to release bookings: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit outcome update: %w", err)
	}
	return iv, nil
}

// ListBookings retrieves the bookings of the given participants that overlap
// [from, to), derived from non-cancelled interviews.
func (db *DB) ListBookings(ctx context.Context, participantIDs []uuid.UUID, from, to time.Time) ([]types.Booking, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT participant_id, interview_id, lower(during), upper(during)
		 FROM panel_bookings
		 WHERE participant_id = ANY($1) AND during && tstzrange($2, $3, '[)')
		 ORDER BY lower(during)`,
		participantIDs, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []types.Booking
	for rows.Next() {
		var b types.Booking
		if err := rows.Scan(&b.ParticipantID, &b.InterviewID, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
