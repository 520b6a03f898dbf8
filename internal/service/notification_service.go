package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/config"
	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
)

// Mailer delivers a rendered email. Transport is an external collaborator;
// the default implementation only logs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes outbound mail to the log instead of a real SMTP hop.
type LogMailer struct {
	Logger *zap.Logger
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Logger.Info("email dispatched", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NotificationService turns domain events into emails. Every attempt is
// recorded in email_logs, moving pending to sent or failed.
type NotificationService struct {
	dispatcher events.Dispatcher
	logs       repository.EmailLogRepository
	tickets    repository.TicketRepository
	users      repository.UserRepository
	mailer     Mailer
	cfg        config.NotificationConfig
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	EmailLogs  repository.EmailLogRepository
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Mailer     Mailer
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		logs:       deps.EmailLogs,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		cfg:        cfg,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleTicketCommented)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	if !n.cfg.Enabled {
		return nil
	}
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("Ticket #%d created: %s", event.TicketID, payload.Title)

	if n.cfg.NotifyCustomerOnCreate {
		if creator, err := n.users.GetByID(ctx, payload.CreatorID); err == nil {
			body := fmt.Sprintf("Your ticket %q has been received and will be handled shortly.%s", payload.Title, n.signature())
			n.deliver(ctx, domain.EmailTicketCreated, creator.Email, subject, body, event.TicketID)
		}
	}
	if n.cfg.NotifyAllAgentsOnNewTicket {
		agents, err := n.users.List(ctx, repository.UserFilter{Role: rolePtr(domain.RoleAgent), Active: boolPtr(true)})
		if err != nil {
			n.logger.Warn("agent fan-out lookup failed", zap.Error(err))
			return nil
		}
		body := fmt.Sprintf("A new ticket %q is waiting for triage.%s", payload.Title, n.signature())
		for _, agent := range agents {
			n.deliver(ctx, domain.EmailTicketCreated, agent.Email, subject, body, event.TicketID)
		}
	}
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	if !n.cfg.Enabled || !n.cfg.NotifyAgentOnAssignment {
		return nil
	}
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.AssigneeID == nil {
		return nil
	}
	assignee, err := n.users.GetByID(ctx, *payload.AssigneeID)
	if err != nil {
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return nil
	}
	subject := fmt.Sprintf("Ticket #%d assigned to you", ticket.ID)
	body := fmt.Sprintf("Ticket %q (%s priority) has been assigned to you.%s", ticket.Title, ticket.Priority.Label(), n.signature())
	n.deliver(ctx, domain.EmailTicketAssigned, assignee.Email, subject, body, ticket.ID)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	if !n.cfg.Enabled || !n.cfg.NotifyCustomerOnStatus {
		return nil
	}
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return nil
	}
	creator, err := n.users.GetByID(ctx, ticket.CreatedByID)
	if err != nil {
		return nil
	}
	subject := fmt.Sprintf("Ticket #%d is now %s", ticket.ID, payload.NewStatus.Label())
	body := fmt.Sprintf("Your ticket %q moved from %s to %s.%s",
		ticket.Title, payload.OldStatus.Label(), payload.NewStatus.Label(), n.signature())
	n.deliver(ctx, domain.EmailStatusChange, creator.Email, subject, body, ticket.ID)
	return nil
}

// handleTicketCommented notifies the counterpart of the comment author:
// the assignee when a customer comments, the creator when staff comment.
// Internal comments never reach customers.
func (n *NotificationService) handleTicketCommented(ctx context.Context, event events.Event) error {
	if !n.cfg.Enabled {
		return nil
	}
	payload, ok := event.Payload.(events.TicketCommentedPayload)
	if !ok {
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return nil
	}
	author, err := n.users.GetByID(ctx, payload.AuthorID)
	if err != nil {
		return nil
	}

	emailType := domain.EmailCommentAdded
	if payload.IsInternal {
		emailType = domain.EmailInternalComment
	}
	subject := fmt.Sprintf("New comment on ticket #%d", ticket.ID)
	body := fmt.Sprintf("%s commented on ticket %q.%s", author.DisplayName(), ticket.Title, n.signature())

	if author.IsStaff() {
		if payload.IsInternal {
			// Internal notes stay inside the team: ping the assignee if
			// someone else wrote the note.
			if n.cfg.NotifyAgentOnComment && ticket.AssignedToID != nil && *ticket.AssignedToID != author.ID {
				if assignee, err := n.users.GetByID(ctx, *ticket.AssignedToID); err == nil {
					n.deliver(ctx, emailType, assignee.Email, subject, body, ticket.ID)
				}
			}
			return nil
		}
		if n.cfg.NotifyCustomerOnComment {
			if creator, err := n.users.GetByID(ctx, ticket.CreatedByID); err == nil {
				n.deliver(ctx, emailType, creator.Email, subject, body, ticket.ID)
			}
		}
		return nil
	}

	if n.cfg.NotifyAgentOnComment && ticket.AssignedToID != nil {
		if assignee, err := n.users.GetByID(ctx, *ticket.AssignedToID); err == nil {
			n.deliver(ctx, emailType, assignee.Email, subject, body, ticket.ID)
		}
	}
	return nil
}

// deliver writes a pending email_logs row, attempts the send, then marks the
// row sent or failed. Delivery failures never propagate to the caller.
func (n *NotificationService) deliver(ctx context.Context, emailType domain.EmailType, recipient, subject, body string, ticketID int64) {
	entry := &domain.EmailLog{
		EmailType:         emailType,
		Subject:           subject,
		Recipient:         recipient,
		Content:           body,
		RelatedObjectID:   &ticketID,
		RelatedObjectType: "ticket",
		Status:            domain.EmailStatusPending,
	}
	if err := n.logs.Create(ctx, entry); err != nil {
		n.logger.Error("email log create failed", zap.Error(err))
		return
	}
	if err := n.mailer.Send(ctx, recipient, subject, body); err != nil {
		n.logger.Warn("email send failed", zap.String("to", recipient), zap.Error(err))
		_ = n.logs.MarkFailed(ctx, entry.ID, err.Error())
		return
	}
	_ = n.logs.MarkSent(ctx, entry.ID, time.Now())
}

func (n *NotificationService) signature() string {
	if n.cfg.EmailSignature == "" {
		return ""
	}
	return "\n\n" + n.cfg.EmailSignature
}

func rolePtr(r domain.UserRole) *domain.UserRole { return &r }

func boolPtr(b bool) *bool { return &b }
