package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(url string, category domain.Category, publishedAt time.Time) domain.NewsRecord {
	return domain.NewsRecord{
		Title:       "Title for " + url,
		URL:         url,
		Category:    category,
		PublishedAt: publishedAt,
	}
}

func TestUpsert_SameURLDoesNotDuplicate(t *testing.T) {
	g := NewGateway()
	ctx := context.Background()

	first, err := g.Upsert(ctx, newRecord("https://example.com/a", domain.CategoryWorld, time.Now()))
	require.NoError(t, err)

	updated := newRecord("https://example.com/a", domain.CategoryWorld, time.Now())
	updated.Title = "Updated title"
	second, err := g.Upsert(ctx, updated)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert keeps the identity of the existing row")

	all, err := g.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Updated title", all[0].Title)
	assert.Equal(t, first.CreatedAt, all[0].CreatedAt)
}

func TestUpsert_ReplacesRelatedWholesale(t *testing.T) {
	g := NewGateway()
	ctx := context.Background()

	record := newRecord("https://example.com/a", domain.CategoryWorld, time.Now())
	record.Related = []domain.RelatedArticle{
		{Title: "First take", URL: "https://other.com/1", PublishedAt: time.Now()},
		{Title: "Second take", URL: "https://other.com/2", PublishedAt: time.Now()},
	}
	_, err := g.Upsert(ctx, record)
	require.NoError(t, err)

	record.Related = []domain.RelatedArticle{
		{Title: "Fresh take", URL: "https://other.com/3", PublishedAt: time.Now()},
	}
	_, err = g.Upsert(ctx, record)
	require.NoError(t, err)

	stored, err := g.FindByURL(ctx, record.URL)
	require.NoError(t, err)
	require.Len(t, stored.Related, 1)
	assert.Equal(t, "Fresh take", stored.Related[0].Title)
}

func TestCheckFresh_FiltersByCategoryAndAge(t *testing.T) {
	g := NewGateway()
	ctx := context.Background()

	now := time.Now()
	_, err := g.Upsert(ctx, newRecord("https://example.com/world", domain.CategoryWorld, now))
	require.NoError(t, err)
	_, err = g.Upsert(ctx, newRecord("https://example.com/tech", domain.CategoryTechnology, now))
	require.NoError(t, err)

	world, err := g.CheckFresh(ctx, domain.CategoryWorld, time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, world, 1)
	assert.Equal(t, "https://example.com/world", world[0].URL)

	all, err := g.CheckFresh(ctx, "", time.Hour, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2, "empty category means the global scope")
}

func TestCheckFresh_OrdersNewestFirstAndLimits(t *testing.T) {
	g := NewGateway()
	ctx := context.Background()

	now := time.Now()
	for i, url := range []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"} {
		_, err := g.Upsert(ctx, newRecord(url, domain.CategoryUS, now.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	fresh, err := g.CheckFresh(ctx, domain.CategoryUS, time.Hour, 2)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "https://e.com/3", fresh[0].URL)
	assert.Equal(t, "https://e.com/2", fresh[1].URL)
}

func TestFindByURL_NotFound(t *testing.T) {
	g := NewGateway()

	_, err := g.FindByURL(context.Background(), "https://nowhere.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
