package dto

import (
	"time"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// ArticleRequest payload for create and update.
type ArticleRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
	Summary    string `json:"summary" validate:"max=500"`
	CategoryID *int64 `json:"category_id"`
	IsFeatured bool   `json:"is_featured"`
}

// ArticleResponse is the article shape.
type ArticleResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Content     string               `json:"content,omitempty"`
	Summary     string               `json:"summary,omitempty"`
	Status      domain.ArticleStatus `json:"status"`
	CategoryID  *int64               `json:"category_id"`
	AuthorID    int64                `json:"author_id"`
	IsFeatured  bool                 `json:"is_featured"`
	ViewCount   int64                `json:"view_count"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	PublishedAt *time.Time           `json:"published_at"`
}

// NewArticleResponse converts a domain article.
func NewArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		Content:     article.Content,
		Summary:     article.Summary,
		Status:      article.Status,
		CategoryID:  article.CategoryID,
		AuthorID:    article.AuthorID,
		IsFeatured:  article.IsFeatured,
		ViewCount:   article.ViewCount,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
		PublishedAt: article.PublishedAt,
	}
}
