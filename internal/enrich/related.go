package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/newsapi"
)

// NewsSource is the news-search capability the pipeline consumes.
type NewsSource interface {
	TopHeadlines(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error)
	Everything(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error)
}

const (
	relatedPageSize = 5
	relatedWindow   = 7 * 24 * time.Hour
)

// RelatedFetcher finds secondary coverage of a main article from the
// preferred-publisher allowlist.
type RelatedFetcher struct {
	source  NewsSource
	sources SourceList
}

func NewRelatedFetcher(source NewsSource, sources SourceList) *RelatedFetcher {
	return &RelatedFetcher{source: source, sources: sources}
}

// Fetch returns up to 5 relevance-sorted related candidates from the last
// 7 days, excluding the main article's own publisher. Errors propagate:
// per-article isolation is the orchestrator's responsibility.
func (f *RelatedFetcher) Fetch(ctx context.Context, main domain.Candidate, keywords string) ([]domain.Candidate, error) {
	related, err := f.source.Everything(ctx, newsapi.EverythingParams{
		Query:          keywords,
		Sources:        f.sources.Preferred,
		ExcludeDomains: []string{main.SourceName},
		Language:       "en",
		SortBy:         "relevancy",
		PageSize:       relatedPageSize,
		From:           time.Now().Add(-relatedWindow),
	})
	if err != nil {
		return nil, err
	}

	// excludeDomains matches domains, not publisher display names, so the
	// main publisher can still leak through
	filtered := make([]domain.Candidate, 0, len(related))
	for _, r := range related {
		if strings.EqualFold(r.SourceName, main.SourceName) {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}
