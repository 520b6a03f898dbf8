package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// ArticlesHandler manages knowledge-base endpoints.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs the handler.
func NewArticlesHandler(articles *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articles}
}

// Create POST /articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	article, err := h.articles.Create(c.Context(), principal.User, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		IsFeatured: req.IsFeatured,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update PUT /articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	articleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	article, err := h.articles.Update(c.Context(), principal.User, articleID, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		IsFeatured: req.IsFeatured,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Publish POST /articles/:id/publish.
func (h *ArticlesHandler) Publish(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	articleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.articles.Publish(c.Context(), principal.User, articleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Archive POST /articles/:id/archive.
func (h *ArticlesHandler) Archive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	articleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.articles.Archive(c.Context(), principal.User, articleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// GetBySlug GET /articles/:slug.
func (h *ArticlesHandler) GetBySlug(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var actor *domain.User
	if principal != nil {
		actor = principal.User
	}
	article, err := h.articles.GetBySlug(c.Context(), actor, c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// List GET /articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var actor *domain.User
	if principal != nil {
		actor = principal.User
	}
	filter := repository.ArticleFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ArticleStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}
	if c.Query("featured") != "" {
		featured := c.QueryBool("featured", false)
		filter.Featured = &featured
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	articles, err := h.articles.List(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	articleID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Context(), principal.User, articleID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
