package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// AssignmentService handles ticket assignment operations.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	profiles   repository.AgentProfileRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	ProfileRepo repository.AgentProfileRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		profiles:   deps.ProfileRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// FindAvailableAgent selects the least-loaded available agent for a ticket.
// Pure selection: nothing is mutated. Returns (nil, nil) when no agent
// qualifies.
//
// When the ticket has a category, agents with matching expertise are tried
// first; the whole available pool is the fallback. Load counts every ticket
// currently assigned to the agent regardless of status, and agents at or over
// their max_tickets cap are excluded. Ties break on the lowest user id.
func (s *AssignmentService) FindAvailableAgent(ctx context.Context, ticket *domain.Ticket) (*domain.User, error) {
	profiles, err := s.profiles.ListAvailable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	if ticket.CategoryID != nil {
		var experts []domain.AgentProfile
		for _, p := range profiles {
			if p.HasExpertise(*ticket.CategoryID) {
				experts = append(experts, p)
			}
		}
		if agent, err := s.pickLeastLoaded(ctx, experts); err != nil || agent != nil {
			return agent, err
		}
	}
	return s.pickLeastLoaded(ctx, profiles)
}

// pickLeastLoaded returns the under-cap candidate with the fewest assigned
// tickets. Candidates arrive ordered by user id, and the strict less-than
// comparison keeps the lowest id on equal load.
func (s *AssignmentService) pickLeastLoaded(ctx context.Context, candidates []domain.AgentProfile) (*domain.User, error) {
	var (
		best     *domain.AgentProfile
		bestLoad int
	)
	for i := range candidates {
		candidate := &candidates[i]
		load, err := s.tickets.CountAssignedTo(ctx, candidate.UserID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if load >= candidate.MaxTickets {
			continue
		}
		if best == nil || load < bestLoad {
			best = candidate
			bestLoad = load
		}
	}
	if best == nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, best.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Assign sets the ticket's assignee and moves it to open. Staff only.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.User, ticketID, agentID int64) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	if agent.Role != domain.RoleAgent {
		return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.applyAssignment(ctx, actor, ticket, agent)
}

// AutoAssign runs the resolver and assigns its pick. When no agent qualifies
// the ticket is left untouched and a conflict is returned.
func (s *AssignmentService) AutoAssign(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	agent, err := s.FindAvailableAgent(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NewConflict("no agent available", map[string]any{"ticket_id": ticketID})
	}
	return s.applyAssignment(ctx, actor, ticket, agent)
}

// applyAssignment persists the new assignee and records history. An
// assigned_to row is written on every assignment; a status row only when the
// status actually changed. Old status is captured before mutation.
func (s *AssignmentService) applyAssignment(ctx context.Context, actor *domain.User, ticket *domain.Ticket, agent *domain.User) (*domain.Ticket, error) {
	oldAssignee := ticket.AssignedToID
	oldStatus := ticket.Status

	ticket.AssignedToID = &agent.ID
	ticket.Status = domain.TicketStatusOpen
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	changes := []domain.FieldChange{{
		Field:    "assigned_to",
		OldValue: s.assigneeDisplay(ctx, oldAssignee),
		NewValue: agent.DisplayName(),
	}}
	if oldStatus != ticket.Status {
		changes = append(changes, domain.FieldChange{
			Field:    "status",
			OldValue: oldStatus.Label(),
			NewValue: ticket.Status.Label(),
		})
	}
	if err := s.history.CreateBatch(ctx, ticket.ID, actor.ID, now, changes); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishAssignmentEvent(ctx, actor.ID, ticket.ID, ticket.AssignedToID)
	return ticket, nil
}

// Unassign clears the assignee. The status is left as-is.
func (s *AssignmentService) Unassign(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedToID == nil {
		return ticket, nil
	}
	oldDisplay := s.assigneeDisplay(ctx, ticket.AssignedToID)
	ticket.AssignedToID = nil
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.history.CreateBatch(ctx, ticket.ID, actor.ID, time.Now(), []domain.FieldChange{{
		Field:    "assigned_to",
		OldValue: oldDisplay,
		NewValue: domain.Unassigned,
	}}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishAssignmentEvent(ctx, actor.ID, ticket.ID, nil)
	return ticket, nil
}

func (s *AssignmentService) getTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) assigneeDisplay(ctx context.Context, assigneeID *int64) string {
	if assigneeID == nil {
		return domain.Unassigned
	}
	user, err := s.users.GetByID(ctx, *assigneeID)
	if err != nil {
		return domain.Unassigned
	}
	return user.DisplayName()
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, actorID, ticketID int64, assigneeID *int64) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   events.TicketAssignedPayload{AssigneeID: assigneeID},
	})
}

func requireStaff(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	return nil
}
