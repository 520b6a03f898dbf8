package events

import (
	"time"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketCommented     EventType = "ticket_commented"
)

// Event represents a domain event emitted by services. The notifier consumes
// these instead of being called directly by ticket operations.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string                `json:"title"`
	Branch     domain.Branch         `json:"branch"`
	Priority   domain.TicketPriority `json:"priority"`
	CategoryID *int64                `json:"category_id,omitempty"`
	CreatorID  int64                 `json:"creator_id"`
}

// TicketAssignedPayload payload. AssigneeID is nil on unassignment.
type TicketAssignedPayload struct {
	AssigneeID *int64 `json:"assignee_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	CommentID  int64 `json:"comment_id"`
	AuthorID   int64 `json:"author_id"`
	IsInternal bool  `json:"is_internal"`
}
