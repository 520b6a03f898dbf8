package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// EmailLogRepository records every outbound notification attempt.
type EmailLogRepository interface {
	Create(ctx context.Context, log *domain.EmailLog) error
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]domain.EmailLog, error)
}

type emailLogRepository struct {
	pool *pgxpool.Pool
}

// NewEmailLogRepository instantiates the repository.
func NewEmailLogRepository(pool *pgxpool.Pool) EmailLogRepository {
	return &emailLogRepository{pool: pool}
}

func (r *emailLogRepository) Create(ctx context.Context, log *domain.EmailLog) error {
	const query = `
        INSERT INTO email_logs (email_type, subject, recipient, content, related_object_id, related_object_type, status, error_message)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.EmailType,
		log.Subject,
		log.Recipient,
		log.Content,
		log.RelatedObjectID,
		log.RelatedObjectType,
		log.Status,
		log.ErrorMessage,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *emailLogRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status=$1, sent_at=$2 WHERE id=$3`,
		domain.EmailStatusSent, at, id)
	return err
}

func (r *emailLogRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status=$1, error_message=$2 WHERE id=$3`,
		domain.EmailStatusFailed, errorMessage, id)
	return err
}

func (r *emailLogRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]domain.EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, email_type, subject, recipient, content, related_object_id, related_object_type,
               status, error_message, created_at, sent_at
        FROM email_logs WHERE recipient=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, recipient, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmailLog
	for rows.Next() {
		var log domain.EmailLog
		if err := rows.Scan(
			&log.ID,
			&log.EmailType,
			&log.Subject,
			&log.Recipient,
			&log.Content,
			&log.RelatedObjectID,
			&log.RelatedObjectType,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
			&log.SentAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
