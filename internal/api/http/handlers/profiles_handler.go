package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// ProfilesHandler manages agent profile endpoints.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs the handler.
func NewProfilesHandler(profiles *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// Get GET /agents/:id/profile.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetAgentProfile(c.Context(), principal.User, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentProfileResponse(profile)})
}

// Update PATCH /agents/:id/profile.
func (h *ProfilesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAgentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.profiles.UpdateAgentProfile(c.Context(), principal.User, userID, service.AgentProfileInput{
		Bio:                req.Bio,
		AvailabilityStatus: req.AvailabilityStatus,
		MaxTickets:         req.MaxTickets,
		Expertise:          req.Expertise,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentProfileResponse(profile)})
}

// ListAvailable GET /agents/available.
func (h *ProfilesHandler) ListAvailable(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profiles, err := h.profiles.ListAvailableAgents(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.AgentProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.NewAgentProfileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
