package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSLAThresholds(t *testing.T) {
	sla := DefaultSLA()

	assert.Equal(t, 24, sla.GetResponseTime(TicketPriorityLow))
	assert.Equal(t, 12, sla.GetResponseTime(TicketPriorityMedium))
	assert.Equal(t, 4, sla.GetResponseTime(TicketPriorityHigh))
	assert.Equal(t, 1, sla.GetResponseTime(TicketPriorityCritical))

	assert.Equal(t, 72, sla.GetResolutionTime(TicketPriorityLow))
	assert.Equal(t, 48, sla.GetResolutionTime(TicketPriorityMedium))
	assert.Equal(t, 24, sla.GetResolutionTime(TicketPriorityHigh))
	assert.Equal(t, 8, sla.GetResolutionTime(TicketPriorityCritical))
}

func TestSLAFallbackForUnknownPriority(t *testing.T) {
	sla := DefaultSLA()
	unknown := TicketPriority("urgent")

	assert.Equal(t, DefaultResponseHours, sla.GetResponseTime(unknown))
	assert.Equal(t, DefaultResolutionHours, sla.GetResolutionTime(unknown))
}

func TestSLADeadlinesDeriveFromCreatedAt(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{CreatedAt: createdAt, Priority: TicketPriorityHigh}
	sla := DefaultSLA()

	assert.Equal(t, createdAt.Add(4*time.Hour), sla.ResponseDeadline(ticket))
	assert.Equal(t, createdAt.Add(24*time.Hour), sla.ResolutionDeadline(ticket))
}

func TestTicketIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Ticket{}).IsOverdue(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&Ticket{DueDate: &past}).IsOverdue(now))

	future := now.Add(time.Hour)
	assert.False(t, (&Ticket{DueDate: &future}).IsOverdue(now))
}
