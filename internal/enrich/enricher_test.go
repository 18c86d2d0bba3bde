package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/newsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipelineCompleter routes completion requests by call site. Keyword and
// title calls fail so their deterministic fallbacks are exercised;
// categorization fails for any title listed in failAnalysisFor.
func pipelineCompleter(failAnalysisFor ...string) ai.Completer {
	return completerFunc(func(ctx context.Context, req ai.Request) (string, error) {
		switch {
		case strings.Contains(req.System, "Extract 2-3"):
			return "", errUnreachable
		case strings.Contains(req.User, "categorize it into ONE of these categories"):
			for _, title := range failAnalysisFor {
				if strings.Contains(req.User, title) {
					return "", errUnreachable
				}
			}
			return "World", nil
		case strings.Contains(req.User, "Main Article Analysis Request"):
			return "## Summary\nNarrative text.", nil
		case strings.Contains(req.System, "percentage breakdown"):
			return `{"positive":10,"neutral":30,"negative":60}`, nil
		case strings.Contains(req.User, "create a clear, engaging"):
			return "", errUnreachable
		case strings.Contains(req.System, "breaking news"):
			return "", errUnreachable
		default:
			return "", fmt.Errorf("unexpected completion request: %.60s", req.User)
		}
	})
}

func headlineBatch(n int) []domain.Candidate {
	batch := make([]domain.Candidate, n)
	for i := range batch {
		batch[i] = domain.Candidate{
			Title:      fmt.Sprintf("Headline %d hits the wire", i),
			URL:        fmt.Sprintf("https://example.com/%d", i),
			ImageURL:   fmt.Sprintf("https://example.com/%d.jpg", i),
			SourceName: "BBC News",
		}
	}
	return batch
}

func relatedBatch() []domain.Candidate {
	return []domain.Candidate{
		{Title: "Rival coverage - Reuters", URL: "https://reuters.example.com/a", SourceName: "Reuters"},
		{Title: "[Removed]", URL: "https://removed.example.com", SourceName: "Removed", Unavailable: true},
	}
}

func TestEnrichTop_BranchIsolation(t *testing.T) {
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return headlineBatch(10), nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			// keyword fallback makes the query the first three title words
			if strings.Contains(params.Query, "Headline 3") {
				return nil, errUnreachable
			}
			return relatedBatch(), nil
		},
	}

	scraper := scraperFunc(func(ctx context.Context, pageURL string) string {
		return "scraped body text"
	})

	enricher := NewEnricher(source, pipelineCompleter("Headline 7"), scraper, DefaultSourceList(),
		WithConfig(Config{BatchSize: 10}))

	records, err := enricher.EnrichTop(t.Context())
	require.NoError(t, err, "single branch failures must not abort the batch")
	require.Len(t, records, 8, "related-fetch failure on #3 and analysis failure on #7 drop exactly two")

	for _, record := range records {
		assert.NotContains(t, record.OriginalTitle, "Headline 3")
		assert.NotContains(t, record.OriginalTitle, "Headline 7")
		assert.Equal(t, domain.CategoryWorld, record.Category)
		assert.True(t, record.Sentiment.Valid())

		require.Len(t, record.Related, 1, "unavailable related coverage is dropped")
		assert.Equal(t, "scraped body text", record.Related[0].Content)
	}

	// output preserves candidate order, not completion order
	wantOrder := []int{0, 1, 2, 4, 5, 6, 8, 9}
	for i, record := range records {
		assert.Contains(t, record.OriginalTitle, fmt.Sprintf("Headline %d", wantOrder[i]))
	}
}

func TestEnrichTop_SlicesToBatchSize(t *testing.T) {
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return headlineBatch(10), nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			return relatedBatch(), nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichTop(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestEnrichTop_FallbackQueryOnZeroResults(t *testing.T) {
	var calls int32
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				assert.Equal(t, []string{"bbc-news"}, params.Sources)
				return nil, nil
			}
			assert.Equal(t, "us", params.Country, "retry broadens to the country query")
			assert.Empty(t, params.Sources)
			return headlineBatch(2), nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			return relatedBatch(), nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichTop(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "primary query retried exactly once")
}

func TestEnrichTop_AcquisitionFailureSurfaces(t *testing.T) {
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return nil, errUnreachable
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	_, err := enricher.EnrichTop(t.Context())
	require.Error(t, err, "headline acquisition is the only failure that propagates")
}

func TestEnrichTop_DropsUnavailableCandidates(t *testing.T) {
	batch := headlineBatch(3)
	batch[1].Unavailable = true

	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return batch, nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			return relatedBatch(), nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichTop(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.NotContains(t, record.OriginalTitle, "Headline 1")
	}
}

func TestEnrichCategory(t *testing.T) {
	batch := headlineBatch(7)
	batch[2].ImageURL = ""
	batch[5].Unavailable = true

	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			assert.Equal(t, "business", params.Category)
			assert.Equal(t, 10, params.PageSize)
			return batch, nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			return relatedBatch(), nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichCategory(t.Context(), domain.CategoryBusiness)
	require.NoError(t, err)

	// 7 candidates minus one image-less minus one unavailable leaves 5
	require.Len(t, records, 5)
	for _, record := range records {
		assert.NotContains(t, record.OriginalTitle, "Headline 2", "image-less candidates are filtered")
		assert.NotContains(t, record.OriginalTitle, "Headline 5", "unavailable candidates are filtered")
		assert.NotEmpty(t, record.ImageURL)
	}
}

func TestEnrichCategory_FallbackToBroadSearch(t *testing.T) {
	var everythingQueries []string
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return nil, nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			everythingQueries = append(everythingQueries, params.Query)
			if params.Query == "science" {
				return headlineBatch(1), nil
			}
			return relatedBatch(), nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichCategory(t.Context(), domain.CategoryScience)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Contains(t, everythingQueries, "science")
}

func TestEnrichOne_RelatedContentFallsBackToSnippet(t *testing.T) {
	source := &fakeSource{
		topHeadlines: func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
			return headlineBatch(1), nil
		},
		everything: func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
			return []domain.Candidate{
				{Title: "Rival coverage", URL: "https://reuters.example.com/a", SourceName: "Reuters", Content: "API snippet"},
			}, nil
		},
	}

	enricher := NewEnricher(source, pipelineCompleter(), emptyScraper, DefaultSourceList())

	records, err := enricher.EnrichTop(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Related, 1)
	assert.Equal(t, "API snippet", records[0].Related[0].Content,
		"failed scrape keeps the API content snippet")
}
