package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"interview-app/internal/assessment"
)

// UpsertAnswer keeps one row per question; a resubmission replaces the text,
// score and feedback of the earlier answer.
func (s *SQLiteStore) UpsertAnswer(ctx context.Context, answer assessment.Answer) error {
	if answer.SubmittedAt.IsZero() {
		answer.SubmittedAt = time.Now().UTC()
	}
	criteriaJSON, err := json.Marshal(answer.Criteria)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO answers (question_id, session_id, answer_text, score, feedback, criteria_json, submitted_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(question_id) DO UPDATE SET
			answer_text = excluded.answer_text,
			score = excluded.score,
			feedback = excluded.feedback,
			criteria_json = excluded.criteria_json,
			submitted_at_unix = excluded.submitted_at_unix`,
		answer.QuestionID,
		answer.SessionID,
		answer.Text,
		answer.Score,
		answer.Feedback,
		string(criteriaJSON),
		answer.SubmittedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) ListAnswers(ctx context.Context, sessionID string) ([]assessment.Answer, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT a.question_id, a.session_id, a.answer_text, a.score, a.feedback, a.criteria_json, a.submitted_at_unix
		 FROM answers a
		 JOIN questions q ON q.question_id = a.question_id
		 WHERE a.session_id = ?
		 ORDER BY q.position ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]assessment.Answer, 0)
	for rows.Next() {
		var (
			answer        assessment.Answer
			criteriaJSON  string
			submittedAtNs int64
		)
		if err := rows.Scan(
			&answer.QuestionID,
			&answer.SessionID,
			&answer.Text,
			&answer.Score,
			&answer.Feedback,
			&criteriaJSON,
			&submittedAtNs,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(criteriaJSON), &answer.Criteria); err != nil {
			return nil, err
		}
		answer.SubmittedAt = time.Unix(0, submittedAtNs).UTC()
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}
