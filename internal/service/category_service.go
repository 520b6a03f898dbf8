package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// CategoryService manages the ticket category tree.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput describes a category create/update payload.
type CategoryInput struct {
	Name        string
	Description string
	ParentID    *int64
	Icon        string
	Color       string
}

// Create adds a category. Admin only. A parent id that does not exist is a
// validation error, unlike ticket categorization which skips silently.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.Category, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *input.ParentID); err != nil {
			return nil, apperrors.NewValidationError("parent category does not exist", map[string]any{"parent_id": *input.ParentID})
		}
	}
	category := &domain.Category{
		Name:        name,
		Description: input.Description,
		ParentID:    input.ParentID,
		Icon:        input.Icon,
		Color:       input.Color,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update edits a category. Admin only. Self-parenting is rejected.
func (s *CategoryService) Update(ctx context.Context, actor *domain.User, categoryID int64, input CategoryInput) (*domain.Category, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	category, err := s.fetch(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.ParentID != nil {
		if *input.ParentID == categoryID {
			return nil, apperrors.NewValidationError("category cannot be its own parent", nil)
		}
		if _, err := s.categories.GetByID(ctx, *input.ParentID); err != nil {
			return nil, apperrors.NewValidationError("parent category does not exist", map[string]any{"parent_id": *input.ParentID})
		}
	}
	category.Name = name
	category.Description = input.Description
	category.ParentID = input.ParentID
	category.Icon = input.Icon
	category.Color = input.Color
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category. Admin only. The database restricts deletion
// while tickets still reference the category; children are detached, not
// removed.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, categoryID int64) error {
	if actor == nil || !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Get returns a single category with its display path.
func (s *CategoryService) Get(ctx context.Context, categoryID int64) (*domain.Category, string, error) {
	category, err := s.fetch(ctx, categoryID)
	if err != nil {
		return nil, "", err
	}
	path := category.Name
	if category.ParentID != nil {
		if parent, err := s.categories.GetByID(ctx, *category.ParentID); err == nil {
			path = category.Path(parent)
		}
	}
	return category, path, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *CategoryService) fetch(ctx context.Context, categoryID int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}
