package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema mirrors the hosted complaints table. Sections are JSONB so that the
// listing can filter on complaint->>'type' with containment.
const schema = `
CREATE TABLE IF NOT EXISTS complaints (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	status         TEXT NOT NULL,
	reference      TEXT,
	complainant    JSONB NOT NULL DEFAULT '{}'::jsonb,
	respondent     JSONB NOT NULL DEFAULT '{}'::jsonb,
	property       JSONB NOT NULL DEFAULT '{}'::jsonb,
	complaint      JSONB NOT NULL DEFAULT '{}'::jsonb,
	representative JSONB
);
CREATE INDEX IF NOT EXISTS complaints_created_at_idx ON complaints (created_at DESC);
CREATE INDEX IF NOT EXISTS complaints_status_idx ON complaints (status);
CREATE INDEX IF NOT EXISTS complaints_complaint_gin_idx ON complaints USING GIN (complaint jsonb_path_ops);
`

// Migrate creates the complaints table and its indexes if they are missing
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
