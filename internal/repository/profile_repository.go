package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// AgentProfileRepository handles agent profile persistence. Expertise is a
// join table against categories.
type AgentProfileRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.AgentProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.AgentProfile, error)
	Update(ctx context.Context, profile *domain.AgentProfile) error
	SetExpertise(ctx context.Context, userID int64, categoryIDs []int64) error
	ListAvailable(ctx context.Context) ([]domain.AgentProfile, error)
}

type agentProfileRepository struct {
	pool *pgxpool.Pool
}

// NewAgentProfileRepository instantiates the repository.
func NewAgentProfileRepository(pool *pgxpool.Pool) AgentProfileRepository {
	return &agentProfileRepository{pool: pool}
}

func (r *agentProfileRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.AgentProfile, error) {
	const query = `
        INSERT INTO agent_profiles (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id=EXCLUDED.user_id
        RETURNING user_id, bio, availability_status, max_tickets, created_at, updated_at`
	var profile domain.AgentProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.AvailabilityStatus,
		&profile.MaxTickets,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	expertise, err := r.expertiseFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Expertise = expertise
	return &profile, nil
}

func (r *agentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.AgentProfile, error) {
	const query = `
        SELECT user_id, bio, availability_status, max_tickets, created_at, updated_at
        FROM agent_profiles WHERE user_id=$1`
	var profile domain.AgentProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.AvailabilityStatus,
		&profile.MaxTickets,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	expertise, err := r.expertiseFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Expertise = expertise
	return &profile, nil
}

func (r *agentProfileRepository) Update(ctx context.Context, profile *domain.AgentProfile) error {
	const query = `
        UPDATE agent_profiles
        SET bio=$1, availability_status=$2, max_tickets=$3, updated_at=NOW()
        WHERE user_id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Bio,
		profile.AvailabilityStatus,
		profile.MaxTickets,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentProfileRepository) SetExpertise(ctx context.Context, userID int64, categoryIDs []int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM agent_expertise WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO agent_expertise (user_id, category_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			userID, categoryID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *agentProfileRepository) ListAvailable(ctx context.Context) ([]domain.AgentProfile, error) {
	const query = `
        SELECT p.user_id, p.bio, p.availability_status, p.max_tickets, p.created_at, p.updated_at
        FROM agent_profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.availability_status = TRUE AND u.role = 'agent' AND u.active = TRUE
        ORDER BY p.user_id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgentProfile
	for rows.Next() {
		var profile domain.AgentProfile
		if err := rows.Scan(
			&profile.UserID,
			&profile.Bio,
			&profile.AvailabilityStatus,
			&profile.MaxTickets,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		expertise, err := r.expertiseFor(ctx, result[i].UserID)
		if err != nil {
			return nil, err
		}
		result[i].Expertise = expertise
	}
	return result, nil
}

func (r *agentProfileRepository) expertiseFor(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category_id FROM agent_expertise WHERE user_id=$1 ORDER BY category_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CustomerProfileRepository handles customer profile persistence.
type CustomerProfileRepository interface {
	GetOrCreate(ctx context.Context, userID int64, company string) (*domain.CustomerProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.CustomerProfile, error)
}

type customerProfileRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerProfileRepository instantiates the repository.
func NewCustomerProfileRepository(pool *pgxpool.Pool) CustomerProfileRepository {
	return &customerProfileRepository{pool: pool}
}

func (r *customerProfileRepository) GetOrCreate(ctx context.Context, userID int64, company string) (*domain.CustomerProfile, error) {
	const query = `
        INSERT INTO customer_profiles (user_id, company)
        VALUES ($1,$2)
        ON CONFLICT (user_id) DO UPDATE SET user_id=EXCLUDED.user_id
        RETURNING user_id, company, account_id, support_level, created_at, updated_at`
	var profile domain.CustomerProfile
	if err := r.pool.QueryRow(ctx, query, userID, company).Scan(
		&profile.UserID,
		&profile.Company,
		&profile.AccountID,
		&profile.SupportLevel,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *customerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.CustomerProfile, error) {
	const query = `
        SELECT user_id, company, account_id, support_level, created_at, updated_at
        FROM customer_profiles WHERE user_id=$1`
	var profile domain.CustomerProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Company,
		&profile.AccountID,
		&profile.SupportLevel,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
