package repositories

import (
	"context"
	"database/sql"

	"shapagatBack/internal/models"
)

type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) CreateSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error) {
	query := `INSERT INTO contact_submissions (name, email, subject, message, created_at) VALUES (?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, s.Name, s.Email, s.Subject, s.Message)
	if err != nil {
		return models.ContactSubmission{}, err
	}
	id, _ := res.LastInsertId()
	s.ID = int(id)
	return s, nil
}

func (r *ContactRepository) GetSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, email, subject, message, created_at FROM contact_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.ContactSubmission
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.CreatedAt); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *ContactRepository) DeleteSubmission(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrSubmissionNotFound
	}
	return nil
}
