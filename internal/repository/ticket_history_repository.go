package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// TicketHistoryRepository stores audit entries. Entries are append-only; no
// update or delete operations exist.
type TicketHistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketHistory) error
	CreateBatch(ctx context.Context, ticketID, userID int64, at time.Time, changes []domain.FieldChange) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, user_id, field_changed, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, ts`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.UserID,
		entry.FieldChanged,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.Timestamp)
}

// CreateBatch writes one row per staged change, all sharing the same actor and
// timestamp.
func (r *ticketHistoryRepository) CreateBatch(ctx context.Context, ticketID, userID int64, at time.Time, changes []domain.FieldChange) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, user_id, ts, field_changed, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, change := range changes {
		if _, err := r.pool.Exec(ctx, query,
			ticketID, userID, at, change.Field, change.OldValue, change.NewValue,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, user_id, ts, field_changed, old_value, new_value
        FROM ticket_history WHERE ticket_id=$1 ORDER BY ts DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var entry domain.TicketHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Timestamp,
			&entry.FieldChanged,
			&entry.OldValue,
			&entry.NewValue,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
