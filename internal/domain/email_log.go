package domain

import "time"

// EmailType classifies outbound notification emails.
type EmailType string

const (
	EmailTicketCreated   EmailType = "ticket_created"
	EmailTicketAssigned  EmailType = "ticket_assigned"
	EmailTicketUpdated   EmailType = "ticket_updated"
	EmailCommentAdded    EmailType = "comment_added"
	EmailInternalComment EmailType = "internal_comment"
	EmailStatusChange    EmailType = "status_change"
	EmailOther           EmailType = "other"
)

// EmailStatus tracks delivery state of a logged email.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// EmailLog records every email the notifier attempts to send.
type EmailLog struct {
	ID                int64
	EmailType         EmailType
	Subject           string
	Recipient         string
	Content           string
	RelatedObjectID   *int64
	RelatedObjectType string
	Status            EmailStatus
	ErrorMessage      string
	CreatedAt         time.Time
	SentAt            *time.Time
}
