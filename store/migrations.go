package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type migration struct {
	version     int
	description string
	apply       func(ctx context.Context, tx *sql.Tx) error
}

// migrations run in order after schemaSQL. Append only.
var migrations = []migration{
	{
		version:     1,
		description: "base quiz schema",
		apply:       func(context.Context, *sql.Tx) error { return nil },
	},
	{
		version:     2,
		description: "question_count on documents",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx,
				"ALTER TABLE documents ADD COLUMN question_count INTEGER DEFAULT 0"); err != nil {
				slog.Debug("store: question_count already present", "error", err)
			}
			_, err := tx.ExecContext(ctx, `UPDATE documents SET question_count =
				(SELECT COUNT(*) FROM questions q WHERE q.document_id = documents.id)`)
			return err
		},
	},
	{
		version:     3,
		description: "index correct answers",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"CREATE INDEX IF NOT EXISTS idx_answers_correct ON answers(question_id) WHERE is_correct = 1")
			return err
		},
	},
	{
		version:     4,
		description: "overwritten question numbers on documents",
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "ALTER TABLE documents ADD COLUMN overwritten JSON")
			return err
		},
	},
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		slog.Info("store: applying migration", "version", m.version, "description", m.description)

		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if err := m.apply(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_version (version, description) VALUES (?, ?)",
				m.version, m.description)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return nil
}
