package enrich

import (
	"context"
	"errors"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/newsapi"
)

var errUnreachable = errors.New("connection refused")

// completerFunc adapts a function to ai.Completer.
type completerFunc func(ctx context.Context, req ai.Request) (string, error)

func (f completerFunc) Complete(ctx context.Context, req ai.Request) (string, error) {
	return f(ctx, req)
}

// failingCompleter simulates an unreachable completion capability.
var failingCompleter = completerFunc(func(ctx context.Context, req ai.Request) (string, error) {
	return "", errUnreachable
})

type fakeSource struct {
	topHeadlines func(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error)
	everything   func(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error)
}

func (f *fakeSource) TopHeadlines(ctx context.Context, params newsapi.TopHeadlinesParams) ([]domain.Candidate, error) {
	if f.topHeadlines == nil {
		return nil, nil
	}
	return f.topHeadlines(ctx, params)
}

func (f *fakeSource) Everything(ctx context.Context, params newsapi.EverythingParams) ([]domain.Candidate, error) {
	if f.everything == nil {
		return nil, nil
	}
	return f.everything(ctx, params)
}

type scraperFunc func(ctx context.Context, pageURL string) string

func (f scraperFunc) Scrape(ctx context.Context, pageURL string) string {
	return f(ctx, pageURL)
}

var emptyScraper = scraperFunc(func(ctx context.Context, pageURL string) string {
	return ""
})
