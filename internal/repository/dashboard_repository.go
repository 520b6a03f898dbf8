package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// DashboardStats aggregates ticket counts for the staff dashboard.
type DashboardStats struct {
	Total      int64                           `json:"total"`
	Unassigned int64                           `json:"unassigned"`
	Overdue    int64                           `json:"overdue"`
	SLABreach  int64                           `json:"sla_breach"`
	ByStatus   map[domain.TicketStatus]int64   `json:"by_status"`
	ByPriority map[domain.TicketPriority]int64 `json:"by_priority"`
	ByBranch   map[domain.Branch]int64         `json:"by_branch"`
}

// DashboardRepository computes aggregate ticket statistics.
type DashboardRepository interface {
	Stats(ctx context.Context, branch *domain.Branch) (*DashboardStats, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository instantiates the repository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) Stats(ctx context.Context, branch *domain.Branch) (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[domain.TicketStatus]int64),
		ByPriority: make(map[domain.TicketPriority]int64),
		ByBranch:   make(map[domain.Branch]int64),
	}

	totals := sq.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE assigned_to_id IS NULL)",
		"COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < NOW())",
		"COUNT(*) FILTER (WHERE sla_breach)",
	).From("tickets")
	totals = applyBranch(totals, branch)
	query, args, err := totals.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total, &stats.Unassigned, &stats.Overdue, &stats.SLABreach,
	); err != nil {
		return nil, err
	}

	if err := r.countByGroup(ctx, "status", branch, func(key string, count int64) {
		stats.ByStatus[domain.TicketStatus(key)] = count
	}); err != nil {
		return nil, err
	}
	if err := r.countByGroup(ctx, "priority", branch, func(key string, count int64) {
		stats.ByPriority[domain.TicketPriority(key)] = count
	}); err != nil {
		return nil, err
	}
	if err := r.countByGroup(ctx, "branch", branch, func(key string, count int64) {
		stats.ByBranch[domain.Branch(key)] = count
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dashboardRepository) countByGroup(ctx context.Context, column string, branch *domain.Branch, collect func(key string, count int64)) error {
	builder := sq.Select(column, "COUNT(*)").From("tickets").GroupBy(column)
	builder = applyBranch(builder, branch)
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		collect(key, count)
	}
	return rows.Err()
}

func applyBranch(builder sq.SelectBuilder, branch *domain.Branch) sq.SelectBuilder {
	if branch != nil {
		return builder.Where(sq.Eq{"branch": *branch})
	}
	return builder
}
