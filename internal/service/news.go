package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/apperr"
	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/storage"
)

const askSystemPrompt = `
You are an advanced AI assistant designed to provide informative and balanced responses to user queries based on recent news articles. Your primary function is to analyze and synthesize information from multiple news sources to offer comprehensive and accurate answers.

## Your Core Responsibilities:

1. Analyze the user's question carefully.
2. Review the provided news article summaries related to the user's query.
3. Synthesize the information from multiple sources to form a coherent and balanced response.
4. Provide accurate, up-to-date information based on the news articles.
5. Maintain objectivity and avoid bias in your responses.
6. Cite sources when presenting specific facts or claims.
7. Clarify any conflicting information found in different news sources.
8. Identify and explain relevant context that may not be explicitly stated in the articles.
9. Highlight any limitations in the available information.
10. Suggest follow-up questions or areas for further research when appropriate.

## Guidelines for Responses:

- Begin with a concise summary that directly addresses the user's question.
- Structure your response logically, using paragraphs to separate distinct points or aspects of the answer.
- Use clear and accessible language, avoiding jargon unless necessary (in which case, provide brief explanations).
- When presenting multiple viewpoints, do so in a balanced manner without favoring any particular stance.
- If the provided news articles don't fully answer the user's question, acknowledge this and offer the best available information.
- Be prepared to explain complex topics or events in simpler terms if needed.
- If asked for an opinion, clarify that you're an AI and can only provide analysis based on the given information.
- Respect copyright and do not reproduce full articles; instead, summarize key points.

## Ethical Considerations:

- Prioritize accuracy and truthfulness in all responses.
- Do not generate or spread misinformation or unverified claims.
- Respect privacy and do not disclose personal information about individuals mentioned in news articles unless it's directly relevant and publicly available.
- Avoid sensationalism or exaggeration; present information objectively.
- When discussing sensitive topics, maintain a respectful and neutral tone.

Remember, your goal is to be a reliable and informative assistant, helping users understand current events and complex issues by leveraging the latest news information provided to you.`

// Enricher produces fully analyzed records from live headlines.
type Enricher interface {
	EnrichTop(ctx context.Context) ([]domain.NewsRecord, error)
	EnrichCategory(ctx context.Context, category domain.Category) ([]domain.NewsRecord, error)
}

// Indexer mirrors persisted records into the search index. It is optional;
// a nil indexer disables mirroring.
type Indexer interface {
	IndexBulk(ctx context.Context, records []domain.NewsRecord) error
}

type Config struct {
	// FreshWindow bounds the category cache: records older than this are
	// re-fetched. The global feed serves whatever is stored regardless of age.
	FreshWindow time.Duration
	// BatchSize is both the serving size and the category cache-hit
	// threshold.
	BatchSize int
}

func DefaultConfig() Config {
	return Config{
		FreshWindow: time.Hour,
		BatchSize:   5,
	}
}

type NewsService struct {
	gateway   storage.Gateway
	enricher  Enricher
	completer ai.Completer
	indexer   Indexer
	cfg       Config
}

type Option func(*NewsService)

func WithConfig(cfg Config) Option {
	return func(s *NewsService) {
		s.cfg = cfg
	}
}

func WithIndexer(indexer Indexer) Option {
	return func(s *NewsService) {
		s.indexer = indexer
	}
}

func NewNewsService(gateway storage.Gateway, enricher Enricher, completer ai.Completer, opts ...Option) *NewsService {
	s := &NewsService{
		gateway:   gateway,
		enricher:  enricher,
		completer: completer,
		cfg:       DefaultConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetNews serves the global feed. Any stored records count as a cache hit;
// only an empty store triggers a fresh enrichment cycle.
func (s *NewsService) GetNews(ctx context.Context) ([]domain.NewsRecord, error) {
	cached, err := s.gateway.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check cached news: %w", err)
	}

	if len(cached) > 0 {
		if len(cached) > s.cfg.BatchSize {
			cached = cached[:s.cfg.BatchSize]
		}
		slog.Info("serving cached news", "count", len(cached))
		return cached, nil
	}

	records, err := s.enricher.EnrichTop(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich top headlines: %w", err)
	}

	return s.persist(ctx, records), nil
}

// GetCategoryNews serves one category. The cache hits only when a full batch
// is younger than the freshness window; anything less triggers a new cycle.
func (s *NewsService) GetCategoryNews(ctx context.Context, rawCategory string) ([]domain.NewsRecord, error) {
	if rawCategory == "" {
		return nil, apperr.NewValidation("category is required")
	}
	category := domain.NormalizeCategory(rawCategory)

	cached, err := s.gateway.CheckFresh(ctx, category, s.cfg.FreshWindow, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to check cached news: %w", err)
	}

	if len(cached) >= s.cfg.BatchSize {
		slog.Info("serving cached category news", "category", category, "count", len(cached))
		return cached, nil
	}

	records, err := s.enricher.EnrichCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich category headlines: %w", err)
	}

	return s.persist(ctx, records), nil
}

// AskNews answers a free-form question against caller-supplied article
// summaries.
func (s *NewsService) AskNews(ctx context.Context, news, query string) (string, error) {
	if query == "" {
		return "", apperr.NewValidation("query is required")
	}

	answer, err := s.completer.Complete(ctx, ai.Request{
		System: askSystemPrompt,
		User: fmt.Sprintf(`
          Here is the news: %s
          Here is the query: %s
          `, news, query),
	})
	if err != nil {
		return "", fmt.Errorf("failed to answer news query: %w", err)
	}

	return answer, nil
}

// ListAllNews returns every stored record for the admin surface.
func (s *NewsService) ListAllNews(ctx context.Context) ([]domain.NewsRecord, error) {
	records, err := s.gateway.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return records, nil
}

// persist upserts each record on its own; one failed write drops that record
// from the response but never aborts its siblings.
func (s *NewsService) persist(ctx context.Context, records []domain.NewsRecord) []domain.NewsRecord {
	saved := make([]domain.NewsRecord, 0, len(records))
	for _, record := range records {
		stored, err := s.gateway.Upsert(ctx, record)
		if err != nil {
			slog.Error("failed to persist news record", "url", record.URL, "error", err)
			continue
		}
		saved = append(saved, stored)
	}

	if s.indexer != nil && len(saved) > 0 {
		if err := s.indexer.IndexBulk(ctx, saved); err != nil {
			slog.Error("failed to mirror records into search index", "error", err)
		}
	}

	return saved
}
