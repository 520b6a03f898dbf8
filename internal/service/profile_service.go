package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// ProfileService manages agent assignment parameters. Agents edit their own
// profile; admins edit anyone's.
type ProfileService struct {
	users      repository.UserRepository
	profiles   repository.AgentProfileRepository
	categories repository.CategoryRepository
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository, profiles repository.AgentProfileRepository, categories repository.CategoryRepository) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, categories: categories}
}

// AgentProfileInput carries profile updates. Nil fields are left unchanged.
type AgentProfileInput struct {
	Bio                *string
	AvailabilityStatus *bool
	MaxTickets         *int
	Expertise          []int64
}

// GetAgentProfile returns the profile for an agent user.
func (s *ProfileService) GetAgentProfile(ctx context.Context, actor *domain.User, userID int64) (*domain.AgentProfile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UpdateAgentProfile applies profile changes for the given agent.
func (s *ProfileService) UpdateAgentProfile(ctx context.Context, actor *domain.User, userID int64, input AgentProfileInput) (*domain.AgentProfile, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, apperrors.NewForbidden("agents can only edit their own profile")
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if target.Role != domain.RoleAgent {
		return nil, apperrors.NewValidationError("user is not an agent", map[string]any{"user_id": userID})
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.AvailabilityStatus != nil {
		profile.AvailabilityStatus = *input.AvailabilityStatus
	}
	if input.MaxTickets != nil {
		if *input.MaxTickets < 1 {
			return nil, apperrors.NewValidationError("max_tickets must be positive", nil)
		}
		profile.MaxTickets = *input.MaxTickets
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Expertise != nil {
		for _, categoryID := range input.Expertise {
			if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
				return nil, apperrors.NewValidationError("unknown expertise category", map[string]any{"category_id": categoryID})
			}
		}
		if err := s.profiles.SetExpertise(ctx, userID, input.Expertise); err != nil {
			return nil, apperrors.MapError(err)
		}
		profile.Expertise = input.Expertise
	}
	return profile, nil
}

// ListAvailableAgents returns agents currently accepting assignments.
func (s *ProfileService) ListAvailableAgents(ctx context.Context, actor *domain.User) ([]domain.AgentProfile, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	profiles, err := s.profiles.ListAvailable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profiles, nil
}
