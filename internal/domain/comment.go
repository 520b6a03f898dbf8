package domain

import "time"

// Comment is a threaded message on a ticket. Internal comments are visible
// only to staff.
type Comment struct {
	ID         int64
	TicketID   int64
	AuthorID   int64
	Text       string
	IsInternal bool
	IsEdited   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
