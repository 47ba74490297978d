package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		title      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS modules (
		id          TEXT PRIMARY KEY,
		program_id  TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		is_gated    INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_modules_program ON modules(program_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS lessons (
		id           TEXT PRIMARY KEY,
		module_id    TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		content_type TEXT NOT NULL
		             CHECK(content_type IN ('video','text','document','quiz','assignment','presentation')),
		order_index  INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lessons_module ON lessons(module_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS lesson_parts (
		id          TEXT NOT NULL,
		lesson_id   TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		title       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL,
		PRIMARY KEY (lesson_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS enrollments (
		id                    TEXT PRIMARY KEY,
		program_id            TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		user_id               TEXT NOT NULL,
		last_viewed_lesson_id TEXT,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		UNIQUE (program_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_enrollments_user ON enrollments(user_id)`,

	`CREATE TABLE IF NOT EXISTS completed_lessons (
		enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
		lesson_id     TEXT NOT NULL,
		completed_at  TEXT NOT NULL,
		PRIMARY KEY (enrollment_id, lesson_id)
	)`,

	`CREATE TABLE IF NOT EXISTS lesson_details (
		enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
		lesson_id     TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'in_progress'
		              CHECK(status IN ('in_progress','completed')),
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (enrollment_id, lesson_id)
	)`,

	`CREATE TABLE IF NOT EXISTS completed_parts (
		enrollment_id TEXT NOT NULL,
		lesson_id     TEXT NOT NULL,
		part_id       TEXT NOT NULL,
		completed_at  TEXT NOT NULL,
		PRIMARY KEY (enrollment_id, lesson_id, part_id),
		FOREIGN KEY (enrollment_id, lesson_id)
			REFERENCES lesson_details(enrollment_id, lesson_id) ON DELETE CASCADE
	)`,
}
