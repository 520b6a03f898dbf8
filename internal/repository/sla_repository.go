package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// SLARepository stores named SLA policies.
type SLARepository interface {
	Create(ctx context.Context, sla *domain.SLA) error
	Update(ctx context.Context, sla *domain.SLA) error
	GetByID(ctx context.Context, id int64) (*domain.SLA, error)
	GetByName(ctx context.Context, name string) (*domain.SLA, error)
	List(ctx context.Context) ([]domain.SLA, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository instantiates the repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

const slaColumns = `id, name, description,
        response_time_low, response_time_medium, response_time_high, response_time_critical,
        resolution_time_low, resolution_time_medium, resolution_time_high, resolution_time_critical,
        business_hours_only, created_at`

func (r *slaRepository) Create(ctx context.Context, sla *domain.SLA) error {
	const query = `
        INSERT INTO slas (name, description,
            response_time_low, response_time_medium, response_time_high, response_time_critical,
            resolution_time_low, resolution_time_medium, resolution_time_high, resolution_time_critical,
            business_hours_only)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		sla.Name,
		sla.Description,
		sla.ResponseTimeLow,
		sla.ResponseTimeMedium,
		sla.ResponseTimeHigh,
		sla.ResponseTimeCritical,
		sla.ResolutionTimeLow,
		sla.ResolutionTimeMedium,
		sla.ResolutionTimeHigh,
		sla.ResolutionTimeCritical,
		sla.BusinessHoursOnly,
	).Scan(&sla.ID, &sla.CreatedAt)
}

func (r *slaRepository) Update(ctx context.Context, sla *domain.SLA) error {
	const query = `
        UPDATE slas SET name=$1, description=$2,
            response_time_low=$3, response_time_medium=$4, response_time_high=$5, response_time_critical=$6,
            resolution_time_low=$7, resolution_time_medium=$8, resolution_time_high=$9, resolution_time_critical=$10,
            business_hours_only=$11
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		sla.Name,
		sla.Description,
		sla.ResponseTimeLow,
		sla.ResponseTimeMedium,
		sla.ResponseTimeHigh,
		sla.ResponseTimeCritical,
		sla.ResolutionTimeLow,
		sla.ResolutionTimeMedium,
		sla.ResolutionTimeHigh,
		sla.ResolutionTimeCritical,
		sla.BusinessHoursOnly,
		sla.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRepository) GetByID(ctx context.Context, id int64) (*domain.SLA, error) {
	return r.fetchSingle(ctx, `SELECT `+slaColumns+` FROM slas WHERE id=$1`, id)
}

func (r *slaRepository) GetByName(ctx context.Context, name string) (*domain.SLA, error) {
	return r.fetchSingle(ctx, `SELECT `+slaColumns+` FROM slas WHERE name=$1`, name)
}

func (r *slaRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.SLA, error) {
	var sla domain.SLA
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&sla.ID,
		&sla.Name,
		&sla.Description,
		&sla.ResponseTimeLow,
		&sla.ResponseTimeMedium,
		&sla.ResponseTimeHigh,
		&sla.ResponseTimeCritical,
		&sla.ResolutionTimeLow,
		&sla.ResolutionTimeMedium,
		&sla.ResolutionTimeHigh,
		&sla.ResolutionTimeCritical,
		&sla.BusinessHoursOnly,
		&sla.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sla, nil
}

func (r *slaRepository) List(ctx context.Context) ([]domain.SLA, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+slaColumns+` FROM slas ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLA
	for rows.Next() {
		var sla domain.SLA
		if err := rows.Scan(
			&sla.ID,
			&sla.Name,
			&sla.Description,
			&sla.ResponseTimeLow,
			&sla.ResponseTimeMedium,
			&sla.ResponseTimeHigh,
			&sla.ResponseTimeCritical,
			&sla.ResolutionTimeLow,
			&sla.ResolutionTimeMedium,
			&sla.ResolutionTimeHigh,
			&sla.ResolutionTimeCritical,
			&sla.BusinessHoursOnly,
			&sla.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sla)
	}
	return result, rows.Err()
}
