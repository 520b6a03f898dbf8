package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// CommentService manages ticket comments. Internal comments are visible to
// staff only; customers can neither post nor read them.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, dispatcher: dispatcher}
}

// Add posts a comment on a ticket. A status change is never triggered by a
// comment; reopening is an explicit staff action.
func (s *CommentService) Add(ctx context.Context, actor *domain.User, ticketID int64, text string, isInternal bool) (*domain.Comment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if isInternal && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("internal comments require staff role")
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		Text:       text,
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCommented,
			TicketID:  ticket.ID,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.TicketCommentedPayload{
				CommentID:  comment.ID,
				AuthorID:   actor.ID,
				IsInternal: comment.IsInternal,
			},
		})
	}
	return comment, nil
}

// Edit rewrites a comment's text. Only the author may edit; the comment is
// flagged as edited.
func (s *CommentService) Edit(ctx context.Context, actor *domain.User, commentID int64, text string) (*domain.Comment, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	if comment.AuthorID != actor.ID {
		return nil, apperrors.NewForbidden("only the author can edit a comment")
	}
	comment.Text = text
	comment.IsEdited = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// ListForTicket returns a ticket's comments, oldest first. Internal comments
// are filtered out for customers.
func (s *CommentService) ListForTicket(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID, actor.IsStaff())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
