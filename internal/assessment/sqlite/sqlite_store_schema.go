package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS postulations (
			postulation_id TEXT PRIMARY KEY,
			job_title TEXT NOT NULL,
			company_name TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			postulation_id TEXT NOT NULL UNIQUE,
			created_at_unix INTEGER NOT NULL,
			finalized_at_unix INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			question_id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty REAL NOT NULL,
			keywords_json TEXT NOT NULL,
			UNIQUE (session_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			question_id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			answer_text TEXT NOT NULL,
			score REAL NOT NULL,
			feedback TEXT NOT NULL,
			criteria_json TEXT NOT NULL,
			submitted_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_session ON answers(session_id);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
