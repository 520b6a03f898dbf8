package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// SLAService manages SLA policies and the breach maintenance scan.
type SLAService struct {
	slas    repository.SLARepository
	tickets repository.TicketRepository
	logger  *zap.Logger
}

// NewSLAService constructs the service.
func NewSLAService(slas repository.SLARepository, tickets repository.TicketRepository, logger *zap.Logger) *SLAService {
	return &SLAService{slas: slas, tickets: tickets, logger: logger}
}

// SLAInput describes a policy create/update payload.
type SLAInput struct {
	Name                   string
	Description            string
	ResponseTimeLow        int
	ResponseTimeMedium     int
	ResponseTimeHigh       int
	ResponseTimeCritical   int
	ResolutionTimeLow      int
	ResolutionTimeMedium   int
	ResolutionTimeHigh     int
	ResolutionTimeCritical int
	BusinessHoursOnly      bool
}

// Create stores a new SLA policy. Admin only.
func (s *SLAService) Create(ctx context.Context, actor *domain.User, input SLAInput) (*domain.SLA, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	sla := &domain.SLA{
		Name:                   input.Name,
		Description:            input.Description,
		ResponseTimeLow:        input.ResponseTimeLow,
		ResponseTimeMedium:     input.ResponseTimeMedium,
		ResponseTimeHigh:       input.ResponseTimeHigh,
		ResponseTimeCritical:   input.ResponseTimeCritical,
		ResolutionTimeLow:      input.ResolutionTimeLow,
		ResolutionTimeMedium:   input.ResolutionTimeMedium,
		ResolutionTimeHigh:     input.ResolutionTimeHigh,
		ResolutionTimeCritical: input.ResolutionTimeCritical,
		BusinessHoursOnly:      input.BusinessHoursOnly,
	}
	if err := s.slas.Create(ctx, sla); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sla, nil
}

// List returns all SLA policies.
func (s *SLAService) List(ctx context.Context) ([]domain.SLA, error) {
	policies, err := s.slas.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policies, nil
}

// ActivePolicy returns the policy used for deadline derivation, falling back
// to the built-in defaults when the table has no "Default" row.
func (s *SLAService) ActivePolicy(ctx context.Context) *domain.SLA {
	policy, err := s.slas.GetByName(ctx, domain.DefaultSLA().Name)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("sla lookup failed, using built-in defaults", zap.Error(err))
		}
		return domain.DefaultSLA()
	}
	return policy
}

// ScanBreaches flags open tickets whose resolution deadline has passed.
// Returns the number of tickets newly flagged.
func (s *SLAService) ScanBreaches(ctx context.Context, now time.Time) (int, error) {
	policy := s.ActivePolicy(ctx)
	open := []domain.TicketStatus{
		domain.TicketStatusNew,
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusWaiting,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{Statuses: open, Limit: 10000})
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	flagged := 0
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.SLABreach {
			continue
		}
		breached := now.After(policy.ResolutionDeadline(ticket)) || ticket.IsOverdue(now)
		if !breached {
			continue
		}
		if err := s.tickets.SetSLABreach(ctx, ticket.ID, true); err != nil {
			s.logger.Error("failed to flag sla breach", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		flagged++
	}
	if flagged > 0 {
		s.logger.Info("sla breach scan complete", zap.Int("flagged", flagged))
	}
	return flagged, nil
}
