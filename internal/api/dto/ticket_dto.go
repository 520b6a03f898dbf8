package dto

import (
	"time"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title            string                `json:"title" validate:"required,max=200"`
	Description      string                `json:"description" validate:"required"`
	OfficeDoorNumber string                `json:"office_door_number" validate:"max=20"`
	Branch           domain.Branch         `json:"branch"`
	Priority         domain.TicketPriority `json:"priority"`
	CategoryID       *int64                `json:"category_id"`
	DueDate          *time.Time            `json:"due_date"`
	Tags             []string              `json:"tags"`
	IsPublic         bool                  `json:"is_public"`
}

// UpdateTicketRequest payload. Absent fields are left unchanged.
type UpdateTicketRequest struct {
	Title            *string                `json:"title"`
	Description      *string                `json:"description"`
	OfficeDoorNumber *string                `json:"office_door_number"`
	Branch           *domain.Branch         `json:"branch"`
	Priority         *domain.TicketPriority `json:"priority"`
	Status           *domain.TicketStatus   `json:"status"`
	CategoryID       *int64                 `json:"category_id"`
	ClearCategory    bool                   `json:"clear_category"`
	DueDate          *time.Time             `json:"due_date"`
	Tags             []string               `json:"tags"`
	IsPublic         *bool                  `json:"is_public"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID int64 `json:"agent_id" validate:"required"`
}

// TicketResponse is the full ticket shape.
type TicketResponse struct {
	ID               int64                 `json:"id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	OfficeDoorNumber string                `json:"office_door_number,omitempty"`
	Status           domain.TicketStatus   `json:"status"`
	StatusLabel      string                `json:"status_label"`
	Branch           domain.Branch         `json:"branch"`
	BranchLabel      string                `json:"branch_label"`
	Priority         domain.TicketPriority `json:"priority"`
	PriorityLabel    string                `json:"priority_label"`
	CreatedByID      int64                 `json:"created_by_id"`
	AssignedToID     *int64                `json:"assigned_to_id"`
	CategoryID       *int64                `json:"category_id"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	DueDate          *time.Time            `json:"due_date"`
	ResolvedAt       *time.Time            `json:"resolved_at"`
	ClosedAt         *time.Time            `json:"closed_at"`
	IsOverdue        bool                  `json:"is_overdue"`
	SLABreach        bool                  `json:"sla_breach"`
	IsPublic         bool                  `json:"is_public"`
	Tags             []string              `json:"tags"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               ticket.ID,
		Title:            ticket.Title,
		Description:      ticket.Description,
		OfficeDoorNumber: ticket.OfficeDoorNumber,
		Status:           ticket.Status,
		StatusLabel:      ticket.Status.Label(),
		Branch:           ticket.Branch,
		BranchLabel:      ticket.Branch.Label(),
		Priority:         ticket.Priority,
		PriorityLabel:    ticket.Priority.Label(),
		CreatedByID:      ticket.CreatedByID,
		AssignedToID:     ticket.AssignedToID,
		CategoryID:       ticket.CategoryID,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
		DueDate:          ticket.DueDate,
		ResolvedAt:       ticket.ResolvedAt,
		ClosedAt:         ticket.ClosedAt,
		IsOverdue:        ticket.IsOverdue(time.Now()),
		SLABreach:        ticket.SLABreach,
		IsPublic:         ticket.IsPublic,
		Tags:             ticket.Tags,
	}
}

// AddAttachmentRequest payload. The file bytes are uploaded to external
// storage first; this records the metadata.
type AddAttachmentRequest struct {
	StorageKey  string `json:"storage_key" validate:"required"`
	FileName    string `json:"file_name" validate:"required,max=255"`
	Description string `json:"description"`
}

// AttachmentResponse is attachment metadata.
type AttachmentResponse struct {
	ID           int64     `json:"id"`
	TicketID     int64     `json:"ticket_id"`
	StorageKey   string    `json:"storage_key"`
	FileName     string    `json:"file_name"`
	Description  string    `json:"description,omitempty"`
	UploadedByID int64     `json:"uploaded_by_id"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// NewAttachmentResponse converts attachment metadata.
func NewAttachmentResponse(attachment *domain.TicketAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           attachment.ID,
		TicketID:     attachment.TicketID,
		StorageKey:   attachment.StorageKey,
		FileName:     attachment.FileName,
		Description:  attachment.Description,
		UploadedByID: attachment.UploadedByID,
		UploadedAt:   attachment.UploadedAt,
	}
}

// HistoryEntryResponse is an audit trail row.
type HistoryEntryResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	FieldChanged string    `json:"field_changed"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
}

// NewHistoryEntryResponse converts a history row.
func NewHistoryEntryResponse(entry *domain.TicketHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Timestamp:    entry.Timestamp,
		FieldChanged: entry.FieldChanged,
		OldValue:     entry.OldValue,
		NewValue:     entry.NewValue,
	}
}
