package dto

import "github.com/cfc-helpdesk/helpdesk-service/internal/domain"

// UpdateAgentProfileRequest payload. Absent fields are left unchanged.
type UpdateAgentProfileRequest struct {
	Bio                *string `json:"bio"`
	AvailabilityStatus *bool   `json:"availability_status"`
	MaxTickets         *int    `json:"max_tickets"`
	Expertise          []int64 `json:"expertise"`
}

// AgentProfileResponse is the profile shape.
type AgentProfileResponse struct {
	UserID             int64   `json:"user_id"`
	Expertise          []int64 `json:"expertise"`
	Bio                string  `json:"bio,omitempty"`
	AvailabilityStatus bool    `json:"availability_status"`
	MaxTickets         int     `json:"max_tickets"`
}

// NewAgentProfileResponse converts a domain profile.
func NewAgentProfileResponse(profile *domain.AgentProfile) AgentProfileResponse {
	return AgentProfileResponse{
		UserID:             profile.UserID,
		Expertise:          profile.Expertise,
		Bio:                profile.Bio,
		AvailabilityStatus: profile.AvailabilityStatus,
		MaxTickets:         profile.MaxTickets,
	}
}
