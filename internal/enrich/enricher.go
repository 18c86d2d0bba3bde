package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/newsapi"
	"github.com/candemir/news-lens/internal/scrape"
	"github.com/google/uuid"
)

const (
	defaultBatchSize     = 5
	defaultCandidatePool = 10
	defaultCountry       = "us"
)

type Config struct {
	// BatchSize is the target number of enriched records per cycle.
	BatchSize int

	// CandidatePool is how many headlines the selector chooses from.
	CandidatePool int

	// HeadlineSources scope the global (non-category) headline query.
	HeadlineSources []string

	// Country scopes category headline queries.
	Country string
}

// Enricher drives one full enrichment cycle: candidate acquisition, selector
// pruning, per-candidate fan-out, and sentinel filtering. Persistence is the
// caller's concern.
type Enricher struct {
	source   NewsSource
	scraper  scrape.Scraper
	keywords *KeywordExtractor
	titles   *TitleImprover
	related  *RelatedFetcher
	analyzer *Analyzer
	selector *BreakingSelector
	sources  SourceList
	cfg      Config
}

type EnricherOption func(*Enricher)

func WithConfig(cfg Config) EnricherOption {
	return func(e *Enricher) {
		if cfg.BatchSize > 0 {
			e.cfg.BatchSize = cfg.BatchSize
		}
		if cfg.CandidatePool > 0 {
			e.cfg.CandidatePool = cfg.CandidatePool
		}
		if len(cfg.HeadlineSources) > 0 {
			e.cfg.HeadlineSources = cfg.HeadlineSources
		}
		if cfg.Country != "" {
			e.cfg.Country = cfg.Country
		}
	}
}

func NewEnricher(source NewsSource, completer ai.Completer, scraper scrape.Scraper, sources SourceList, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		source:   source,
		scraper:  scraper,
		keywords: NewKeywordExtractor(completer),
		titles:   NewTitleImprover(completer),
		related:  NewRelatedFetcher(source, sources),
		analyzer: NewAnalyzer(completer),
		selector: NewBreakingSelector(completer),
		sources:  sources,
		cfg: Config{
			BatchSize:       defaultBatchSize,
			CandidatePool:   defaultCandidatePool,
			HeadlineSources: []string{"bbc-news"},
			Country:         defaultCountry,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// EnrichTop runs the global cycle: source-scoped top headlines, no selector
// pruning. Only headline acquisition failure is returned; everything after
// degrades per article.
func (e *Enricher) EnrichTop(ctx context.Context) ([]domain.NewsRecord, error) {
	candidates, err := e.source.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
		Sources:  e.cfg.HeadlineSources,
		PageSize: e.cfg.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch top headlines: %w", err)
	}

	if len(candidates) == 0 {
		slog.Info("no scoped headlines, retrying with country query")
		candidates, err = e.source.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
			Country:  e.cfg.Country,
			PageSize: e.cfg.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch fallback headlines: %w", err)
		}
	}

	candidates = dropUnavailable(candidates)

	return e.enrichAll(ctx, candidates), nil
}

// EnrichCategory runs the category cycle: a wider candidate pool, image
// filter, and selector pruning down to the batch size.
func (e *Enricher) EnrichCategory(ctx context.Context, category domain.Category) ([]domain.NewsRecord, error) {
	apiCategory := strings.ToLower(string(category))
	candidates, err := e.source.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
		Country:  e.cfg.Country,
		Category: apiCategory,
		PageSize: e.cfg.CandidatePool,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch category headlines: %w", err)
	}

	if len(candidates) == 0 {
		slog.Info("no category headlines, retrying with broad search", "category", category)
		candidates, err = e.source.Everything(ctx, newsapi.EverythingParams{
			Query:    apiCategory,
			Language: "en",
			SortBy:   "publishedAt",
			PageSize: e.cfg.CandidatePool,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch fallback headlines: %w", err)
		}
	}

	candidates = dropUnavailable(candidates)

	// the category pages are visual; drop candidates without artwork
	withImages := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ImageURL == "" {
			continue
		}
		c.Category = string(category)
		withImages = append(withImages, c)
	}

	ranked := make([]RankedCandidate, len(withImages))
	for i, c := range withImages {
		ranked[i] = RankedCandidate{Candidate: c}
	}

	selections := e.selector.SelectTop(ctx, ranked, e.cfg.BatchSize)

	selected := make([]domain.Candidate, 0, len(selections))
	for _, sel := range selections {
		c := withImages[sel.Index]
		c.Category = string(sel.Category)
		selected = append(selected, c)
	}

	return e.enrichAll(ctx, selected), nil
}

// enrichAll fans out one branch per candidate and waits for all of them to
// settle. A failed branch logs and leaves a gap; siblings are unaffected and
// the output keeps input order.
func (e *Enricher) enrichAll(ctx context.Context, candidates []domain.Candidate) []domain.NewsRecord {
	results := make([]*domain.NewsRecord, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate domain.Candidate) {
			defer wg.Done()

			record, err := e.enrichOne(ctx, candidate)
			if err != nil {
				slog.Error("enrichment branch failed", "title", candidate.Title, "error", err)
				return
			}
			results[i] = record
		}(i, candidate)
	}
	wg.Wait()

	records := make([]domain.NewsRecord, 0, len(candidates))
	for _, r := range results {
		if r == nil {
			continue
		}
		records = append(records, *r)
		if len(records) == e.cfg.BatchSize {
			break
		}
	}

	return records
}

// enrichOne runs the sequential stages for a single candidate: keywords,
// related coverage, related scraping, analysis, title improvement.
func (e *Enricher) enrichOne(ctx context.Context, candidate domain.Candidate) (*domain.NewsRecord, error) {
	keywords := e.keywords.Extract(ctx, candidate.Title)

	relatedCandidates, err := e.related.Fetch(ctx, candidate, keywords)
	if err != nil {
		return nil, fmt.Errorf("fetch related coverage: %w", err)
	}

	related := make([]domain.RelatedArticle, 0, len(relatedCandidates))
	for _, rc := range relatedCandidates {
		if rc.Unavailable {
			continue
		}

		content := e.scraper.Scrape(ctx, rc.URL)
		if content == "" {
			content = rc.Content
		}

		enrichedTitle := e.titles.Improve(ctx, domain.Candidate{
			Title:       rc.Title,
			Description: rc.Description,
			Content:     content,
			Category:    candidate.Category,
		})

		related = append(related, domain.RelatedArticle{
			ID:            uuid.New(),
			Title:         CleanTitle(enrichedTitle, e.sources.TitleSuffixes),
			OriginalTitle: CleanTitle(rc.Title, e.sources.TitleSuffixes),
			Description:   rc.Description,
			Content:       content,
			URL:           rc.URL,
			ImageURL:      rc.ImageURL,
			PublishedAt:   rc.PublishedAt,
			SourceName:    rc.SourceName,
		})
	}

	analysis, err := e.analyzer.Generate(ctx, candidate, related)
	if err != nil {
		return nil, fmt.Errorf("analyze article: %w", err)
	}

	category := analysis.Category
	if category == domain.CategoryGeneral && candidate.Category != "" {
		category = domain.NormalizeCategory(candidate.Category)
	}

	candidate.Category = string(category)
	improvedTitle := e.titles.Improve(ctx, candidate)

	now := time.Now()
	return &domain.NewsRecord{
		ID:            uuid.New(),
		Title:         CleanTitle(improvedTitle, e.sources.TitleSuffixes),
		OriginalTitle: CleanTitle(candidate.Title, e.sources.TitleSuffixes),
		Description:   candidate.Description,
		Content:       candidate.Content,
		URL:           candidate.URL,
		ImageURL:      candidate.ImageURL,
		PublishedAt:   candidate.PublishedAt,
		SourceName:    candidate.SourceName,
		Category:      category,
		Analysis:      analysis.Narrative,
		Sentiment:     analysis.Sentiment,
		Related:       related,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func dropUnavailable(candidates []domain.Candidate) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Unavailable {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
