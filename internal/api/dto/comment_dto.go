package dto

import (
	"time"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text       string `json:"text" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// EditCommentRequest payload.
type EditCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentResponse is the comment shape.
type CommentResponse struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	AuthorID   int64     `json:"author_id"`
	Text       string    `json:"text"`
	IsInternal bool      `json:"is_internal"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCommentResponse converts a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		Text:       comment.Text,
		IsInternal: comment.IsInternal,
		IsEdited:   comment.IsEdited,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}
