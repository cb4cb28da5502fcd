package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"interview-app/internal/assessment"
)

func (s *SQLiteStore) CreatePostulation(ctx context.Context, postulation assessment.Postulation) error {
	if postulation.ID == "" {
		return errors.New("postulation id is required")
	}
	if postulation.CreatedAt.IsZero() {
		postulation.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO postulations (postulation_id, job_title, company_name, status, created_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		postulation.ID,
		postulation.JobTitle,
		postulation.CompanyName,
		postulation.Status,
		postulation.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetPostulation(ctx context.Context, postulationID string) (assessment.Postulation, error) {
	var (
		postulation assessment.Postulation
		createdAtNs int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT postulation_id, job_title, company_name, status, created_at_unix
		 FROM postulations
		 WHERE postulation_id = ?`,
		postulationID,
	).Scan(&postulation.ID, &postulation.JobTitle, &postulation.CompanyName, &postulation.Status, &createdAtNs)
	if errors.Is(err, sql.ErrNoRows) {
		return assessment.Postulation{}, assessment.ErrPostulationNotFound
	}
	if err != nil {
		return assessment.Postulation{}, err
	}
	postulation.CreatedAt = time.Unix(0, createdAtNs).UTC()
	return postulation, nil
}

func (s *SQLiteStore) UpdatePostulationStatus(ctx context.Context, postulationID, status string) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE postulations SET status = ? WHERE postulation_id = ?`,
		status,
		postulationID,
	)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return assessment.ErrPostulationNotFound
	}
	return nil
}
