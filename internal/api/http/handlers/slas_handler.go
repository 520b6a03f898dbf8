package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// SLAsHandler manages SLA policy endpoints.
type SLAsHandler struct {
	slas *service.SLAService
}

// NewSLAsHandler constructs the handler.
func NewSLAsHandler(slas *service.SLAService) *SLAsHandler {
	return &SLAsHandler{slas: slas}
}

// Create POST /slas.
func (h *SLAsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SLARequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	sla, err := h.slas.Create(c.Context(), principal.User, service.SLAInput{
		Name:                   req.Name,
		Description:            req.Description,
		ResponseTimeLow:        req.ResponseTimeLow,
		ResponseTimeMedium:     req.ResponseTimeMedium,
		ResponseTimeHigh:       req.ResponseTimeHigh,
		ResponseTimeCritical:   req.ResponseTimeCritical,
		ResolutionTimeLow:      req.ResolutionTimeLow,
		ResolutionTimeMedium:   req.ResolutionTimeMedium,
		ResolutionTimeHigh:     req.ResolutionTimeHigh,
		ResolutionTimeCritical: req.ResolutionTimeCritical,
		BusinessHoursOnly:      req.BusinessHoursOnly,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSLAResponse(sla)})
}

// List GET /slas.
func (h *SLAsHandler) List(c *fiber.Ctx) error {
	policies, err := h.slas.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SLAResponse, 0, len(policies))
	for i := range policies {
		items = append(items, dto.NewSLAResponse(&policies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
