package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// DashboardHandler serves aggregate ticket statistics.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var branch *domain.Branch
	if raw := c.Query("branch"); raw != "" {
		b := domain.Branch(raw)
		branch = &b
	}
	stats, err := h.dashboard.Stats(c.Context(), principal.User, branch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
