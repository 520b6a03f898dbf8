package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// CategoriesHandler manages the category tree endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs the handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// Create POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.Context(), principal.User, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Update PUT /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	categoryID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.Context(), principal.User, categoryID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Delete DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	categoryID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Context(), principal.User, categoryID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, path, err := h.categories.Get(c.Context(), categoryID)
	if err != nil {
		return err
	}
	resp := dto.NewCategoryResponse(category)
	resp.Path = path
	return c.JSON(fiber.Map{"data": resp})
}

// List GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
