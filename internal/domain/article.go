package domain

import "time"

// ArticleStatus enumerates knowledge-base article lifecycle states.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Article is a knowledge-base entry.
type Article struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	Summary     string
	Status      ArticleStatus
	CategoryID  *int64
	AuthorID    int64
	IsFeatured  bool
	ViewCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// ArticleCategory organizes knowledge-base articles.
type ArticleCategory struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ParentID    *int64
	Order       int
	CreatedAt   time.Time
}
