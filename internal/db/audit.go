package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// RecordAudit inserts one audit record. Records are append-only.
func (db *DB) RecordAudit(ctx context.Context, rec types.AuditRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO audit_records (object_type, object_id, action, from_value, to_value, actor_id, comment, reason_category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ObjectType, rec.ObjectID, rec.Action, rec.FromValue, rec.ToValue,
		rec.ActorID, rec.Comment, rec.ReasonCategory, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListAuditByObject retrieves the audit trail for one object, newest first.
func (db *DB) ListAuditByObject(ctx context.Context, objectType types.AuditObjectType, objectID uuid.UUID, limit int) ([]types.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, object_type, object_id, action, from_value, to_value, actor_id, comment, reason_category, created_at
		 FROM audit_records
		 WHERE object_type = $1 AND object_id = $2
		 ORDER BY created_at DESC LIMIT $3`,
		objectType, objectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var recs []types.AuditRecord
	for rows.Next() {
		var rec types.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectType, &rec.ObjectID, &rec.Action,
			&rec.FromValue, &rec.ToValue, &rec.ActorID, &rec.Comment,
			&rec.ReasonCategory, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// CreateNote inserts a note attached to an application.
func (db *DB) CreateNote(ctx context.Context, note types.Note) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO notes (application_id, author_id, body, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		note.ApplicationID, note.AuthorID, note.Body, note.Tags, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// ListNotesByApplication retrieves an application's notes, newest first.
func (db *DB) ListNotesByApplication(ctx context.Context, applicationID uuid.UUID, limit int) ([]types.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, author_id, body, tags, created_at
		 FROM notes WHERE application_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		applicationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []types.Note
	for rows.Next() {
		var n types.Note
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.AuthorID, &n.Body, &n.Tags, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}
