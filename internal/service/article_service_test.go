package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[int64]*domain.Article
	seq      int64
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[int64]*domain.Article)}
}

func (f *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	article.ID = f.seq
	clone := *article
	f.articles[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *article
	f.articles[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeArticleRepo) GetByID(_ context.Context, id int64) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *article
	return &clone, nil
}

func (f *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, article := range f.articles {
		if article.Slug == slug {
			clone := *article
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeArticleRepo) List(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Article
	for i := int64(1); i <= f.seq; i++ {
		article, ok := f.articles[i]
		if !ok {
			continue
		}
		if filter.Status != nil && article.Status != *filter.Status {
			continue
		}
		out = append(out, *article)
	}
	return out, nil
}

func (f *fakeArticleRepo) IncrementViewCount(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	article.ViewCount++
	return nil
}

func articleActors() (*domain.User, *domain.User, *domain.User) {
	admin := &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, Active: true}
	agent := &domain.User{ID: 2, Username: "agent", Role: domain.RoleAgent, Active: true}
	customer := &domain.User{ID: 3, Username: "claire", Role: domain.RoleCustomer, Active: true}
	return admin, agent, customer
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "how-to-reset-your-vpn-password", Slugify("How to Reset Your VPN Password"))
	assert.Equal(t, "printer-faq", Slugify("  Printer FAQ!  "))
	assert.Equal(t, "100-disk-usage", Slugify("100% Disk Usage?"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestArticleLifecycle(t *testing.T) {
	repo := newFakeArticleRepo()
	svc := NewArticleService(repo)
	_, agent, customer := articleActors()
	ctx := context.Background()

	article, err := svc.Create(ctx, agent, ArticleInput{Title: "VPN Setup", Content: "Steps..."})
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleStatusDraft, article.Status)
	assert.Equal(t, "vpn-setup", article.Slug)
	assert.Nil(t, article.PublishedAt)

	// drafts are invisible to customers
	_, err = svc.GetBySlug(ctx, customer, "vpn-setup")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	published, err := svc.Publish(ctx, agent, article.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublishedAt := *published.PublishedAt

	got, err := svc.GetBySlug(ctx, customer, "vpn-setup")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ViewCount)

	archived, err := svc.Archive(ctx, agent, article.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleStatusArchived, archived.Status)

	republished, err := svc.Publish(ctx, agent, article.ID)
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.Equal(t, firstPublishedAt, *republished.PublishedAt)
}

func TestArticleListPinsNonStaffToPublished(t *testing.T) {
	repo := newFakeArticleRepo()
	svc := NewArticleService(repo)
	_, agent, customer := articleActors()
	ctx := context.Background()

	draft, err := svc.Create(ctx, agent, ArticleInput{Title: "Draft Only", Content: "wip"})
	require.NoError(t, err)
	live, err := svc.Create(ctx, agent, ArticleInput{Title: "Live Article", Content: "done"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, agent, live.ID)
	require.NoError(t, err)

	visible, err := svc.List(ctx, customer, repository.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, live.ID, visible[0].ID)

	all, err := svc.List(ctx, agent, repository.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// anonymous readers get the same published-only view
	anon, err := svc.List(ctx, nil, repository.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.NotEqual(t, draft.ID, anon[0].ID)
}

func TestArticleWritePermissions(t *testing.T) {
	repo := newFakeArticleRepo()
	svc := NewArticleService(repo)
	admin, agent, customer := articleActors()
	ctx := context.Background()

	_, err := svc.Create(ctx, customer, ArticleInput{Title: "Nope", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	article, err := svc.Create(ctx, agent, ArticleInput{Title: "Keep", Content: "x"})
	require.NoError(t, err)

	// delete is admin-only
	err = svc.Delete(ctx, agent, article.ID)
	require.Error(t, err)
	require.NoError(t, svc.Delete(ctx, admin, article.ID))
}

func TestUpdateArticleSlugFollowsTitle(t *testing.T) {
	repo := newFakeArticleRepo()
	svc := NewArticleService(repo)
	_, agent, _ := articleActors()
	ctx := context.Background()

	article, err := svc.Create(ctx, agent, ArticleInput{Title: "Old Title", Content: "x"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, agent, article.ID, ArticleInput{Title: "Brand New Title", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)
}
