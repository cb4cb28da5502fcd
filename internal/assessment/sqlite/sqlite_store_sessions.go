package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"interview-app/internal/assessment"
)

// CreateSession inserts the session and its questions in one transaction. The
// UNIQUE postulation_id column makes concurrent generation for the same
// postulation resolve to the first stored session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session assessment.Session, questions []assessment.Question) (assessment.Session, error) {
	if session.ID == "" || session.PostulationID == "" {
		return assessment.Session{}, errors.New("session and postulation ids are required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return assessment.Session{}, err
	}
	defer tx.Rollback()

	insertResult, err := tx.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO sessions (session_id, postulation_id, created_at_unix, finalized_at_unix)
		 VALUES (?, ?, ?, 0)`,
		session.ID,
		session.PostulationID,
		session.CreatedAt.UnixNano(),
	)
	if err != nil {
		return assessment.Session{}, err
	}
	inserted, err := insertResult.RowsAffected()
	if err != nil {
		return assessment.Session{}, err
	}
	if inserted == 0 {
		return scanSession(tx.QueryRowContext(
			ctx,
			`SELECT session_id, postulation_id, created_at_unix, finalized_at_unix
			 FROM sessions WHERE postulation_id = ?`,
			session.PostulationID,
		))
	}

	for idx, question := range questions {
		keywordsJSON, err := json.Marshal(question.Keywords)
		if err != nil {
			return assessment.Session{}, err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO questions (session_id, position, prompt, category, difficulty, keywords_json)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			session.ID,
			idx,
			question.Text,
			question.Category,
			question.Difficulty,
			string(keywordsJSON),
		)
		if err != nil {
			return assessment.Session{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return assessment.Session{}, err
	}
	return session, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (assessment.Session, error) {
	return scanSession(s.db.QueryRowContext(
		ctx,
		`SELECT session_id, postulation_id, created_at_unix, finalized_at_unix
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	))
}

func (s *SQLiteStore) GetSessionByPostulation(ctx context.Context, postulationID string) (assessment.Session, error) {
	return scanSession(s.db.QueryRowContext(
		ctx,
		`SELECT session_id, postulation_id, created_at_unix, finalized_at_unix
		 FROM sessions WHERE postulation_id = ?`,
		postulationID,
	))
}

func (s *SQLiteStore) FinalizeSession(ctx context.Context, sessionID string, finalizedAt time.Time) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET finalized_at_unix = ?
		 WHERE session_id = ? AND finalized_at_unix = 0`,
		finalizedAt.UnixNano(),
		sessionID,
	)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		// Either unknown or already finalized.
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, sessionID string) ([]assessment.Question, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, session_id, position, prompt, category, difficulty, keywords_json
		 FROM questions
		 WHERE session_id = ?
		 ORDER BY position ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]assessment.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, questionID int64) (assessment.Question, error) {
	question, err := scanQuestion(s.db.QueryRowContext(
		ctx,
		`SELECT question_id, session_id, position, prompt, category, difficulty, keywords_json
		 FROM questions
		 WHERE question_id = ?`,
		questionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.Question{}, assessment.ErrQuestionNotFound
	}
	return question, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (assessment.Session, error) {
	var (
		session       assessment.Session
		createdAtNs   int64
		finalizedAtNs int64
	)
	err := row.Scan(&session.ID, &session.PostulationID, &createdAtNs, &finalizedAtNs)
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.Session{}, assessment.ErrSessionNotFound
	}
	if err != nil {
		return assessment.Session{}, err
	}
	session.CreatedAt = time.Unix(0, createdAtNs).UTC()
	if finalizedAtNs != 0 {
		session.FinalizedAt = time.Unix(0, finalizedAtNs).UTC()
	}
	return session, nil
}

func scanQuestion(row rowScanner) (assessment.Question, error) {
	var (
		question     assessment.Question
		keywordsJSON string
	)
	if err := row.Scan(
		&question.ID,
		&question.SessionID,
		&question.Position,
		&question.Text,
		&question.Category,
		&question.Difficulty,
		&keywordsJSON,
	); err != nil {
		return assessment.Question{}, err
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &question.Keywords); err != nil {
		return assessment.Question{}, err
	}
	return question, nil
}
