package dto

import "github.com/cfc-helpdesk/helpdesk-service/internal/domain"

// CategoryRequest payload for create and update.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
	Icon        string `json:"icon" validate:"max=50"`
	Color       string `json:"color" validate:"max=20"`
}

// CategoryResponse is the category shape.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Path        string `json:"path,omitempty"`
}

// NewCategoryResponse converts a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		Icon:        category.Icon,
		Color:       category.Color,
	}
}
