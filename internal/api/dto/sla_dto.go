package dto

import "github.com/cfc-helpdesk/helpdesk-service/internal/domain"

// SLARequest payload.
type SLARequest struct {
	Name                   string `json:"name" validate:"required,max=100"`
	Description            string `json:"description"`
	ResponseTimeLow        int    `json:"response_time_low" validate:"min=1"`
	ResponseTimeMedium     int    `json:"response_time_medium" validate:"min=1"`
	ResponseTimeHigh       int    `json:"response_time_high" validate:"min=1"`
	ResponseTimeCritical   int    `json:"response_time_critical" validate:"min=1"`
	ResolutionTimeLow      int    `json:"resolution_time_low" validate:"min=1"`
	ResolutionTimeMedium   int    `json:"resolution_time_medium" validate:"min=1"`
	ResolutionTimeHigh     int    `json:"resolution_time_high" validate:"min=1"`
	ResolutionTimeCritical int    `json:"resolution_time_critical" validate:"min=1"`
	BusinessHoursOnly      bool   `json:"business_hours_only"`
}

// SLAResponse is the policy shape.
type SLAResponse struct {
	ID                     int64  `json:"id"`
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	ResponseTimeLow        int    `json:"response_time_low"`
	ResponseTimeMedium     int    `json:"response_time_medium"`
	ResponseTimeHigh       int    `json:"response_time_high"`
	ResponseTimeCritical   int    `json:"response_time_critical"`
	ResolutionTimeLow      int    `json:"resolution_time_low"`
	ResolutionTimeMedium   int    `json:"resolution_time_medium"`
	ResolutionTimeHigh     int    `json:"resolution_time_high"`
	ResolutionTimeCritical int    `json:"resolution_time_critical"`
	BusinessHoursOnly      bool   `json:"business_hours_only"`
}

// NewSLAResponse converts a domain policy.
func NewSLAResponse(sla *domain.SLA) SLAResponse {
	return SLAResponse{
		ID:                     sla.ID,
		Name:                   sla.Name,
		Description:            sla.Description,
		ResponseTimeLow:        sla.ResponseTimeLow,
		ResponseTimeMedium:     sla.ResponseTimeMedium,
		ResponseTimeHigh:       sla.ResponseTimeHigh,
		ResponseTimeCritical:   sla.ResponseTimeCritical,
		ResolutionTimeLow:      sla.ResolutionTimeLow,
		ResolutionTimeMedium:   sla.ResolutionTimeMedium,
		ResolutionTimeHigh:     sla.ResolutionTimeHigh,
		ResolutionTimeCritical: sla.ResolutionTimeCritical,
		BusinessHoursOnly:      sla.BusinessHoursOnly,
	}
}
