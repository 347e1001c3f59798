// Command migrate creates the hiring-pipeline schema.
//
// Usage:
//
//	go run cmd/tools/migrate/main.go
//
// Requires DATABASE_URL environment variable to be set. Statements are
// idempotent; rerunning against an existing schema is safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The exclusion constraint on panel_bookings is the storage-level backstop
// against double-booking: two overlapping ranges for the same participant
// cannot both commit, regardless of how many processes raced the in-memory
// conflict check.
var statements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS applications (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		candidate_name TEXT NOT NULL,
		requisition_id UUID NOT NULL,
		stage          TEXT NOT NULL DEFAULT 'NEW',
		status         TEXT NOT NULL DEFAULT 'ACTIVE',
		rejected_at    TIMESTAMPTZ,
		version        BIGINT NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS interviews (
		id              UUID PRIMARY KEY,
		application_id  UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		type            TEXT NOT NULL,
		scheduled_start TIMESTAMPTZ NOT NULL,
		scheduled_end   TIMESTAMPTZ NOT NULL,
		location        TEXT NOT NULL DEFAULT '',
		meeting_link    TEXT NOT NULL DEFAULT '',
		outcome         TEXT NOT NULL DEFAULT 'SCHEDULED',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (scheduled_start < scheduled_end)
	)`,

	`CREATE TABLE IF NOT EXISTS interview_panelists (
		interview_id UUID NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		user_id      UUID NOT NULL,
		name         TEXT NOT NULL,
		role         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (interview_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS panel_bookings (
		interview_id   UUID NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		participant_id UUID NOT NULL,
		during         TSTZRANGE NOT NULL,
		PRIMARY KEY (interview_id, participant_id),
		EXCLUDE USING gist (participant_id WITH =, during WITH &&)
	)`,

	`CREATE TABLE IF NOT EXISTS scorecards (
		id             UUID PRIMARY KEY,
		interview_id   UUID NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		interviewer_id UUID NOT NULL,
		status         TEXT NOT NULL DEFAULT 'PENDING',
		due_at         TIMESTAMPTZ NOT NULL,
		submitted_at   TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS audit_records (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		object_type     TEXT NOT NULL,
		object_id       UUID NOT NULL,
		action          TEXT NOT NULL,
		from_value      TEXT NOT NULL DEFAULT '',
		to_value        TEXT NOT NULL DEFAULT '',
		actor_id        UUID NOT NULL,
		comment         TEXT NOT NULL DEFAULT '',
		reason_category TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS notes (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		author_id      UUID NOT NULL,
		body           TEXT NOT NULL,
		tags           TEXT[] NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_interviews_application ON interviews(application_id, scheduled_start DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_scorecards_interview ON scorecards(interview_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scorecards_due ON scorecards(due_at) WHERE status IN ('PENDING', 'IN_PROGRESS')`,
	`CREATE INDEX IF NOT EXISTS idx_audit_object ON audit_records(object_type, object_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_application ON notes(application_id, created_at DESC)`,
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Migration statement failed: %v\n%s\n", err, stmt)
			os.Exit(1)
		}
	}

	fmt.Println("Schema migration complete.")
}
