package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	Status     *domain.ArticleStatus
	CategoryID *int64
	Featured   *bool
	SearchTerm *string
	Limit      int
	Offset     int
}

// ArticleRepository stores knowledge-base articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	IncrementViewCount(ctx context.Context, id int64) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates the repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, slug, content, summary, status, category_id, author_id,
        is_featured, view_count, created_at, updated_at, published_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, slug, content, summary, status, category_id, author_id, is_featured, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, view_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Slug,
		article.Content,
		article.Summary,
		article.Status,
		article.CategoryID,
		article.AuthorID,
		article.IsFeatured,
		article.PublishedAt,
	).Scan(&article.ID, &article.ViewCount, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, slug=$2, content=$3, summary=$4, status=$5, category_id=$6,
            is_featured=$7, published_at=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Slug,
		article.Content,
		article.Summary,
		article.Status,
		article.CategoryID,
		article.IsFeatured,
		article.PublishedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id)
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug=$1`, slug)
}

func (r *articleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Article, error) {
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Content,
		&article.Summary,
		&article.Status,
		&article.CategoryID,
		&article.AuthorID,
		&article.IsFeatured,
		&article.ViewCount,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("is_featured=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(content) LIKE %s)", placeholder, placeholder))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Slug,
			&article.Content,
			&article.Summary,
			&article.Status,
			&article.CategoryID,
			&article.AuthorID,
			&article.IsFeatured,
			&article.ViewCount,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.PublishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *articleRepository) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id=$1`, id)
	return err
}
