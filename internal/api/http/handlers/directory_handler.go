package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/cfc-helpdesk/helpdesk-service/internal/directory"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// DirectoryHandler triggers directory reconciliation for a single account.
type DirectoryHandler struct {
	sync *directory.SyncService
}

// NewDirectoryHandler constructs the handler. sync may be nil when the
// directory integration is disabled.
func NewDirectoryHandler(sync *directory.SyncService) *DirectoryHandler {
	return &DirectoryHandler{sync: sync}
}

type syncRequest struct {
	Username string `json:"username" validate:"required"`
}

// Sync POST /admin/directory/sync.
func (h *DirectoryHandler) Sync(c *fiber.Ctx) error {
	if h.sync == nil {
		return apperrors.NewConflict("directory integration disabled", nil)
	}
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	user, err := h.sync.Sync(c.Context(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
