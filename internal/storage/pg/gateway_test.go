package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/storage"
	pkgtesting "github.com/candemir/news-lens/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx     context.Context
	testPool    *ConnectionPool
	testGateway *Gateway
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "news_lens_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testGateway, err = NewGateway(testPool)
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE news CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate table: %v", err)
	}
}

func sampleRecord(url string, category domain.Category) domain.NewsRecord {
	return domain.NewsRecord{
		Title:         "Improved headline",
		OriginalTitle: "Original headline",
		Description:   "Short description",
		Content:       "Long-form content",
		URL:           url,
		ImageURL:      "https://img.example.com/1.jpg",
		PublishedAt:   time.Now().UTC().Truncate(time.Second),
		SourceName:    "BBC News",
		Category:      category,
		Analysis:      "Comprehensive analysis text",
		Sentiment:     domain.Sentiment{Positive: 20, Neutral: 50, Negative: 30},
		Related: []domain.RelatedArticle{
			{Title: "Another angle", URL: url + "/related-1", PublishedAt: time.Now().UTC(), SourceName: "Reuters"},
			{Title: "Second angle", URL: url + "/related-2", PublishedAt: time.Now().UTC(), SourceName: "Associated Press"},
		},
	}
}

func TestGateway_Upsert_RoundTrip(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	record := sampleRecord("https://example.com/story", domain.CategoryWorld)

	saved, err := testGateway.Upsert(testCtx, record)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	found, err := testGateway.FindByURL(testCtx, record.URL)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, record.Title, found.Title)
	assert.Equal(t, record.OriginalTitle, found.OriginalTitle)
	assert.Equal(t, record.Category, found.Category)
	assert.Equal(t, record.Sentiment, found.Sentiment)
	assert.Len(t, found.Related, 2)
}

func TestGateway_Upsert_SameURLDoesNotDuplicate(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	record := sampleRecord("https://example.com/story", domain.CategoryWorld)

	first, err := testGateway.Upsert(testCtx, record)
	require.NoError(t, err)

	record.Title = "Rewritten headline"
	record.ID = first.ID
	second, err := testGateway.Upsert(testCtx, record)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	all, err := testGateway.ListAll(testCtx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Rewritten headline", all[0].Title)
}

func TestGateway_Upsert_ReplacesRelatedWholesale(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	record := sampleRecord("https://example.com/story", domain.CategoryWorld)

	saved, err := testGateway.Upsert(testCtx, record)
	require.NoError(t, err)
	require.Len(t, saved.Related, 2)

	saved.Related = []domain.RelatedArticle{
		{Title: "Fresh take", URL: "https://other.com/fresh", PublishedAt: time.Now().UTC(), SourceName: "NPR"},
	}
	_, err = testGateway.Upsert(testCtx, saved)
	require.NoError(t, err)

	found, err := testGateway.FindByURL(testCtx, record.URL)
	require.NoError(t, err)
	require.Len(t, found.Related, 1)
	assert.Equal(t, "Fresh take", found.Related[0].Title)
}

func TestGateway_CheckFresh_Windows(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	_, err := testGateway.Upsert(testCtx, sampleRecord("https://example.com/world", domain.CategoryWorld))
	require.NoError(t, err)
	_, err = testGateway.Upsert(testCtx, sampleRecord("https://example.com/tech", domain.CategoryTechnology))
	require.NoError(t, err)

	world, err := testGateway.CheckFresh(testCtx, domain.CategoryWorld, time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, world, 1)
	assert.Equal(t, "https://example.com/world", world[0].URL)
	assert.Len(t, world[0].Related, 2, "fresh records come back with their children")

	all, err := testGateway.CheckFresh(testCtx, "", time.Hour, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2, "empty category means the global scope")

	// a zero-width window excludes everything already written
	stale, err := testGateway.CheckFresh(testCtx, domain.CategoryWorld, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestGateway_FindByURL_NotFound(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	_, err := testGateway.FindByURL(testCtx, "https://nowhere.example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
