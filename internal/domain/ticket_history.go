package domain

import "time"

// Unassigned is the display value recorded when a ticket has no assignee.
const Unassigned = "Unassigned"

// TicketHistory is an immutable audit trail entry. One row is created per
// observed field change per save; rows are never updated or deleted.
type TicketHistory struct {
	ID           int64
	TicketID     int64
	UserID       int64
	Timestamp    time.Time
	FieldChanged string
	OldValue     string
	NewValue     string
}

// FieldChange is a staged (field, old, new) tuple collected while diffing an
// update against the persisted ticket. Values are display strings.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}
