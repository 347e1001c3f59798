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

const applicationColumns = `id, candidate_name, requisition_id, stage, status, rejected_at, version, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var app types.Application
	err := row.Scan(&app.ID, &app.CandidateName, &app.RequisitionID, &app.Stage,
		&app.Status, &app.RejectedAt, &app.Version, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication inserts a new application in stage NEW with status ACTIVE.
func (db *DB) CreateApplication(ctx context.Context, candidateName string, requisitionID uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (candidate_name, requisition_id, stage, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+applicationColumns,
		candidateName, requisitionID, types.StageNew, types.StatusActive,
	)
	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application by ID. Returns (nil, nil) when absent.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// UpdateStage conditionally moves an application to a new stage. The write
// only lands if the stored stage and version still match what the caller
// read, which rules out lost updates between concurrent movers. Returns
// (nil, nil) when the guard matched no row.
func (db *DB) UpdateStage(ctx context.Context, id uuid.UUID, from, to types.Stage, expectedVersion int64) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET stage = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2 AND stage = $3 AND version = $4
		 RETURNING `+applicationColumns,
		to, id, from, expectedVersion,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	return app, nil
}

// MarkRejected conditionally moves an ACTIVE application to REJECTED under
// the same version guard as UpdateStage. Returns (nil, nil) when the guard
// matched no row.
func (db *DB) MarkRejected(ctx context.Context, id uuid.UUID, rejectedAt time.Time, expectedVersion int64) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $1, rejected_at = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $3 AND status = $4 AND version = $5
		 RETURNING `+applicationColumns,
		types.StatusRejected, rejectedAt, id, types.StatusActive, expectedVersion,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark application rejected: %w", err)
	}
	return app, nil
}

// ListApplicationsByStage retrieves applications currently in the given stage.
func (db *DB) ListApplicationsByStage(ctx context.Context, stage types.Stage, limit int) ([]types.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE stage = $1 ORDER BY created_at ASC LIMIT $2`,
		stage, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, nil
}
