package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"

	"github.com/hauseeHQ/intake-service/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	GetLatestByUserID(ctx context.Context, userID string) (*models.Submission, error)
}

type submissionRepository struct {
	db DB
}

func NewSubmissionRepository(db DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	q := `
        INSERT INTO intake_submissions
            (id, user_id, email, phone, property_intent, payload, submitted_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
    `
	_, err := r.db.Exec(ctx, q,
		sub.ID,
		sub.UserID,
		sub.Email,
		sub.Phone,
		string(sub.PropertyIntent),
		sub.Payload,
		sub.SubmittedAt,
	)
	return err
}

func (r *submissionRepository) GetLatestByUserID(ctx context.Context, userID string) (*models.Submission, error) {
	q := `
        SELECT id, user_id, email, phone, property_intent, payload, submitted_at, created_at
        FROM intake_submissions
        WHERE user_id = $1
        ORDER BY submitted_at DESC
        LIMIT 1
    `
	row := r.db.QueryRow(ctx, q, userID)

	var sub models.Submission
	var intent string
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Email,
		&sub.Phone,
		&intent,
		&sub.Payload,
		&sub.SubmittedAt,
		&sub.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	sub.PropertyIntent = models.PropertyIntent(intent)
	return &sub, nil
}
