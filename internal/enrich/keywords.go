package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/candemir/news-lens/internal/ai"
)

const keywordSystemPrompt = `Extract 2-3 most essential search terms from the news title that would yield the best search results.
Guidelines:
- Focus on core topics, entities, or events
- Remove unnecessary words (articles, conjunctions)
- Keep proper nouns and specific terms
- For numbers or statistics, keep only if crucial to the story
- Avoid overly specific details that might limit search results

Return only the keywords separated by spaces, no punctuation.

Examples:
Input: "U.S. Senate approves $95 billion aid package for Ukraine and Israel"
Output: Ukraine Israel aid

Input: "Tesla reports record quarterly earnings despite market challenges"
Output: Tesla earnings record`

// KeywordExtractor turns a headline into a short search query.
type KeywordExtractor struct {
	completer ai.Completer
}

func NewKeywordExtractor(completer ai.Completer) *KeywordExtractor {
	return &KeywordExtractor{completer: completer}
}

// Extract never fails: when the completion capability errors or returns
// nothing, the first three title tokens stand in.
func (e *KeywordExtractor) Extract(ctx context.Context, title string) string {
	keywords, err := e.completer.Complete(ctx, ai.Request{
		System:      keywordSystemPrompt,
		User:        title,
		Temperature: 0.3,
		MaxTokens:   50,
	})
	if err != nil {
		slog.Warn("keyword extraction failed, using title prefix", "title", title, "error", err)
		return fallbackKeywords(title)
	}

	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return fallbackKeywords(title)
	}

	return keywords
}

func fallbackKeywords(title string) string {
	fields := strings.Fields(title)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}
