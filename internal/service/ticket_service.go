package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	categories  repository.CategoryRepository
	history     repository.TicketHistoryRepository
	users       repository.UserRepository
	slas        repository.SLARepository
	attachments repository.AttachmentRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CategoryRepo   repository.CategoryRepository
	HistoryRepo    repository.TicketHistoryRepository
	UserRepo       repository.UserRepository
	SLARepo        repository.SLARepository
	AttachmentRepo repository.AttachmentRepository
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		categories:  deps.CategoryRepo,
		history:     deps.HistoryRepo,
		users:       deps.UserRepo,
		slas:        deps.SLARepo,
		attachments: deps.AttachmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title            string
	Description      string
	OfficeDoorNumber string
	Branch           domain.Branch
	Priority         domain.TicketPriority
	CategoryID       *int64
	DueDate          *time.Time
	Tags             []string
	IsPublic         bool
}

// TicketUpdateInput carries optional field updates. Nil means "leave as-is".
type TicketUpdateInput struct {
	Title            *string
	Description      *string
	OfficeDoorNumber *string
	Branch           *domain.Branch
	Priority         *domain.TicketPriority
	Status           *domain.TicketStatus
	CategoryID       *int64
	ClearCategory    bool
	DueDate          *time.Time
	Tags             []string
	IsPublic         *bool
}

// Create opens a new ticket for the actor. A category id that does not exist
// is skipped without error; the ticket simply stays uncategorized.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}

	ticket := &domain.Ticket{
		Title:            title,
		Description:      description,
		OfficeDoorNumber: strings.TrimSpace(input.OfficeDoorNumber),
		Status:           domain.TicketStatusNew,
		Branch:           input.Branch,
		Priority:         input.Priority,
		CreatedByID:      actor.ID,
		DueDate:          input.DueDate,
		Tags:             input.Tags,
		IsPublic:         input.IsPublic,
	}
	if ticket.Branch == "" {
		ticket.Branch = domain.BranchSiege
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !ticket.Branch.Valid() {
		return nil, apperrors.NewValidationError("unknown branch", map[string]any{"branch": input.Branch})
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if input.CategoryID != nil {
		if s.categoryExists(ctx, *input.CategoryID) {
			ticket.CategoryID = input.CategoryID
		}
	}
	if ticket.DueDate == nil {
		s.applyDefaultDueDate(ctx, ticket)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.history.CreateBatch(ctx, ticket.ID, actor.ID, time.Now(), []domain.FieldChange{{
		Field:    "status",
		OldValue: "",
		NewValue: ticket.Status.Label(),
	}}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			Branch:     ticket.Branch,
			Priority:   ticket.Priority,
			CategoryID: ticket.CategoryID,
			CreatorID:  ticket.CreatedByID,
		},
	})
	return ticket, nil
}

// Get fetches a ticket enforcing visibility: customers only see their own
// tickets unless the ticket is public.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// List returns tickets visible to the actor. Customers are always scoped to
// their own tickets.
func (s *TicketService) List(ctx context.Context, actor *domain.User, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.IsCustomer() {
		filter.CreatedByID = &actor.ID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update applies field changes, writing one history row per field that
// actually changed. Customers cannot change status; a status value from a
// customer is ignored rather than rejected. resolved_at and closed_at are set
// once and kept on later transitions.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canEditTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	var changes []domain.FieldChange
	var statusChange *events.TicketStatusChangedPayload

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		if title != ticket.Title {
			changes = append(changes, domain.FieldChange{Field: "title", OldValue: ticket.Title, NewValue: title})
			ticket.Title = title
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", nil)
		}
		if description != ticket.Description {
			changes = append(changes, domain.FieldChange{Field: "description", OldValue: ticket.Description, NewValue: description})
			ticket.Description = description
		}
	}
	if input.OfficeDoorNumber != nil && *input.OfficeDoorNumber != ticket.OfficeDoorNumber {
		changes = append(changes, domain.FieldChange{Field: "office_door_number", OldValue: ticket.OfficeDoorNumber, NewValue: *input.OfficeDoorNumber})
		ticket.OfficeDoorNumber = *input.OfficeDoorNumber
	}
	if input.Branch != nil && *input.Branch != ticket.Branch {
		if !input.Branch.Valid() {
			return nil, apperrors.NewValidationError("unknown branch", map[string]any{"branch": *input.Branch})
		}
		changes = append(changes, domain.FieldChange{Field: "branch", OldValue: ticket.Branch.Label(), NewValue: input.Branch.Label()})
		ticket.Branch = *input.Branch
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		changes = append(changes, domain.FieldChange{Field: "priority", OldValue: ticket.Priority.Label(), NewValue: input.Priority.Label()})
		ticket.Priority = *input.Priority
	}
	if input.ClearCategory && ticket.CategoryID != nil {
		changes = append(changes, domain.FieldChange{Field: "category", OldValue: s.categoryDisplay(ctx, ticket.CategoryID), NewValue: ""})
		ticket.CategoryID = nil
	} else if input.CategoryID != nil && !sameID(ticket.CategoryID, input.CategoryID) {
		// Unknown categories are skipped, leaving the field unchanged.
		if s.categoryExists(ctx, *input.CategoryID) {
			changes = append(changes, domain.FieldChange{
				Field:    "category",
				OldValue: s.categoryDisplay(ctx, ticket.CategoryID),
				NewValue: s.categoryDisplay(ctx, input.CategoryID),
			})
			ticket.CategoryID = input.CategoryID
		}
	}
	if input.DueDate != nil && !sameTime(ticket.DueDate, input.DueDate) {
		changes = append(changes, domain.FieldChange{
			Field:    "due_date",
			OldValue: timeDisplay(ticket.DueDate),
			NewValue: timeDisplay(input.DueDate),
		})
		ticket.DueDate = input.DueDate
	}
	if input.IsPublic != nil && *input.IsPublic != ticket.IsPublic {
		changes = append(changes, domain.FieldChange{
			Field:    "is_public",
			OldValue: strconv.FormatBool(ticket.IsPublic),
			NewValue: strconv.FormatBool(*input.IsPublic),
		})
		ticket.IsPublic = *input.IsPublic
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
	}
	if input.Status != nil && actor.IsStaff() && *input.Status != ticket.Status {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		oldStatus := ticket.Status
		changes = append(changes, domain.FieldChange{Field: "status", OldValue: oldStatus.Label(), NewValue: input.Status.Label()})
		ticket.Status = *input.Status
		s.applyStatusTimestamps(ticket)
		statusChange = &events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status}
	}

	if len(changes) == 0 && input.Tags == nil {
		return ticket, nil
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(changes) > 0 {
		if err := s.history.CreateBatch(ctx, ticket.ID, actor.ID, time.Now(), changes); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if statusChange != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload:  *statusChange,
		})
	}
	return ticket, nil
}

// ChangeStatus moves a ticket to any status. Staff only; there is no
// transition graph, any state can follow any other.
func (s *TicketService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == newStatus {
		return ticket, nil
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	s.applyStatusTimestamps(ticket)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.history.CreateBatch(ctx, ticket.ID, actor.ID, time.Now(), []domain.FieldChange{{
		Field:    "status",
		OldValue: oldStatus.Label(),
		NewValue: newStatus.Label(),
	}}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus},
	})
	return ticket, nil
}

// Delete removes a ticket. Allowed for staff and for the creator. History,
// comments and attachments cascade at the database level.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID int64) error {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return err
	}
	if actor == nil || (!actor.IsStaff() && actor.ID != ticket.CreatedByID) {
		return apperrors.NewForbidden("access denied")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// History returns the audit trail for a ticket, newest first.
func (s *TicketService) History(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.TicketHistory, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// AttachmentInput describes attachment metadata. The file itself is expected
// in external storage under StorageKey before the record is created.
type AttachmentInput struct {
	StorageKey  string
	FileName    string
	Description string
}

// AddAttachment records attachment metadata on a ticket. Anyone who can view
// the ticket can attach to it.
func (s *TicketService) AddAttachment(ctx context.Context, actor *domain.User, ticketID int64, input AttachmentInput) (*domain.TicketAttachment, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if strings.TrimSpace(input.StorageKey) == "" || strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.NewValidationError("storage_key and file_name are required", nil)
	}
	attachment := &domain.TicketAttachment{
		TicketID:     ticket.ID,
		StorageKey:   input.StorageKey,
		FileName:     input.FileName,
		Description:  input.Description,
		UploadedByID: actor.ID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListAttachments returns a ticket's attachment metadata, newest first.
func (s *TicketService) ListAttachments(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.TicketAttachment, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

// DeleteAttachment removes attachment metadata. Staff only.
func (s *TicketService) DeleteAttachment(ctx context.Context, actor *domain.User, ticketID, attachmentID int64) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if _, err := s.fetch(ctx, ticketID); err != nil {
		return err
	}
	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("attachment", map[string]any{"attachment_id": attachmentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// applyStatusTimestamps stamps resolved_at/closed_at exactly once. Later
// transitions never clear or overwrite them.
func (s *TicketService) applyStatusTimestamps(ticket *domain.Ticket) {
	now := time.Now()
	if ticket.Status == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
		ticket.ResolvedAt = &now
	}
	if ticket.Status == domain.TicketStatusClosed && ticket.ClosedAt == nil {
		ticket.ClosedAt = &now
	}
}

// applyDefaultDueDate derives the due date from the default SLA's resolution
// threshold for the ticket's priority. A missing policy falls back to the
// built-in defaults.
func (s *TicketService) applyDefaultDueDate(ctx context.Context, ticket *domain.Ticket) {
	policy := domain.DefaultSLA()
	if s.slas != nil {
		if stored, err := s.slas.GetByName(ctx, policy.Name); err == nil {
			policy = stored
		}
	}
	due := time.Now().Add(time.Duration(policy.GetResolutionTime(ticket.Priority)) * time.Hour)
	ticket.DueDate = &due
}

func (s *TicketService) fetch(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) categoryExists(ctx context.Context, id int64) bool {
	_, err := s.categories.GetByID(ctx, id)
	return err == nil
}

func (s *TicketService) categoryDisplay(ctx context.Context, id *int64) string {
	if id == nil {
		return ""
	}
	category, err := s.categories.GetByID(ctx, *id)
	if err != nil {
		return strconv.FormatInt(*id, 10)
	}
	return category.Name
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func canViewTicket(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff() || ticket.IsPublic {
		return true
	}
	return ticket.CreatedByID == actor.ID
}

func canEditTicket(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff() || ticket.CreatedByID == actor.ID
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func timeDisplay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
