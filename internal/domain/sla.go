package domain

import "time"

// Fallback thresholds for unrecognized priority values. Unreachable with a
// valid priority but kept as a defensive floor.
const (
	DefaultResponseHours   = 24
	DefaultResolutionHours = 72
)

// SLA is a named policy mapping each priority to response and resolution
// thresholds in hours.
type SLA struct {
	ID                     int64
	Name                   string
	Description            string
	ResponseTimeLow        int
	ResponseTimeMedium     int
	ResponseTimeHigh       int
	ResponseTimeCritical   int
	ResolutionTimeLow      int
	ResolutionTimeMedium   int
	ResolutionTimeHigh     int
	ResolutionTimeCritical int
	BusinessHoursOnly      bool
	CreatedAt              time.Time
}

// GetResponseTime returns the response threshold in hours for a priority.
func (s *SLA) GetResponseTime(priority TicketPriority) int {
	switch priority {
	case TicketPriorityLow:
		return s.ResponseTimeLow
	case TicketPriorityMedium:
		return s.ResponseTimeMedium
	case TicketPriorityHigh:
		return s.ResponseTimeHigh
	case TicketPriorityCritical:
		return s.ResponseTimeCritical
	}
	return DefaultResponseHours
}

// GetResolutionTime returns the resolution threshold in hours for a priority.
func (s *SLA) GetResolutionTime(priority TicketPriority) int {
	switch priority {
	case TicketPriorityLow:
		return s.ResolutionTimeLow
	case TicketPriorityMedium:
		return s.ResolutionTimeMedium
	case TicketPriorityHigh:
		return s.ResolutionTimeHigh
	case TicketPriorityCritical:
		return s.ResolutionTimeCritical
	}
	return DefaultResolutionHours
}

// ResponseDeadline computes when first response is due for a ticket.
func (s *SLA) ResponseDeadline(ticket *Ticket) time.Time {
	return ticket.CreatedAt.Add(time.Duration(s.GetResponseTime(ticket.Priority)) * time.Hour)
}

// ResolutionDeadline computes when resolution is due for a ticket.
func (s *SLA) ResolutionDeadline(ticket *Ticket) time.Time {
	return ticket.CreatedAt.Add(time.Duration(s.GetResolutionTime(ticket.Priority)) * time.Hour)
}

// DefaultSLA returns the built-in policy used when none is configured.
func DefaultSLA() *SLA {
	return &SLA{
		Name:                   "Default",
		ResponseTimeLow:        24,
		ResponseTimeMedium:     12,
		ResponseTimeHigh:       4,
		ResponseTimeCritical:   1,
		ResolutionTimeLow:      72,
		ResolutionTimeMedium:   48,
		ResolutionTimeHigh:     24,
		ResolutionTimeCritical: 8,
		BusinessHoursOnly:      true,
	}
}
