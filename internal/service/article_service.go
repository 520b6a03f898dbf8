package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// ArticleService manages knowledge-base articles. Writes are staff-only;
// published articles are readable by everyone.
type ArticleService struct {
	articles repository.ArticleRepository
}

// NewArticleService constructs the service.
func NewArticleService(articles repository.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// ArticleInput describes an article create/update payload.
type ArticleInput struct {
	Title      string
	Content    string
	Summary    string
	CategoryID *int64
	IsFeatured bool
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a URL slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Create stores a new draft article.
func (s *ArticleService) Create(ctx context.Context, actor *domain.User, input ArticleInput) (*domain.Article, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}
	article := &domain.Article{
		Title:      title,
		Slug:       Slugify(title),
		Content:    input.Content,
		Summary:    input.Summary,
		Status:     domain.ArticleStatusDraft,
		CategoryID: input.CategoryID,
		AuthorID:   actor.ID,
		IsFeatured: input.IsFeatured,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Update rewrites an article's content fields. The slug follows the title.
func (s *ArticleService) Update(ctx context.Context, actor *domain.User, articleID int64, input ArticleInput) (*domain.Article, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	article, err := s.fetch(ctx, articleID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}
	article.Title = title
	article.Slug = Slugify(title)
	article.Content = input.Content
	article.Summary = input.Summary
	article.CategoryID = input.CategoryID
	article.IsFeatured = input.IsFeatured
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Publish moves an article to published. published_at is stamped on the first
// publish only and survives later unpublish/republish cycles.
func (s *ArticleService) Publish(ctx context.Context, actor *domain.User, articleID int64) (*domain.Article, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	article, err := s.fetch(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status == domain.ArticleStatusPublished {
		return article, nil
	}
	article.Status = domain.ArticleStatusPublished
	if article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Archive retires an article from the public listing.
func (s *ArticleService) Archive(ctx context.Context, actor *domain.User, articleID int64) (*domain.Article, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	article, err := s.fetch(ctx, articleID)
	if err != nil {
		return nil, err
	}
	article.Status = domain.ArticleStatusArchived
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// GetBySlug returns a single article and counts the view. Non-staff callers
// only see published articles.
func (s *ArticleService) GetBySlug(ctx context.Context, actor *domain.User, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
		}
		return nil, apperrors.MapError(err)
	}
	if article.Status != domain.ArticleStatusPublished && (actor == nil || !actor.IsStaff()) {
		return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
	}
	if err := s.articles.IncrementViewCount(ctx, article.ID); err == nil {
		article.ViewCount++
	}
	return article, nil
}

// List returns articles matching the filter. Non-staff callers are pinned to
// published articles.
func (s *ArticleService) List(ctx context.Context, actor *domain.User, filter repository.ArticleFilter) ([]domain.Article, error) {
	if actor == nil || !actor.IsStaff() {
		published := domain.ArticleStatusPublished
		filter.Status = &published
	}
	articles, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// Delete removes an article. Admin only.
func (s *ArticleService) Delete(ctx context.Context, actor *domain.User, articleID int64) error {
	if actor == nil || !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	if err := s.articles.Delete(ctx, articleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ArticleService) fetch(ctx context.Context, articleID int64) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
