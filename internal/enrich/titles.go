package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
)

const titlePromptTemplate = `Given this news article information, create a clear, engaging, and informative title.

Original Title: %s
Description: %s
Content: %s
Category: %s

Guidelines:
- Keep it under 100 characters
- Be accurate and factual
- Include key information
- Avoid clickbait
- Maintain journalistic standards
- If it's breaking news, indicate that
- For numbers/statistics, use specific figures
- Include location if relevant
- Do not include quotation marks in the title

Return only the new title, nothing else.`

// CleanTitle strips the configured publisher suffixes from a title. Patterns
// apply in list order, each replaced at most once. Pure and idempotent for
// titles carrying zero or one recognized suffix.
func CleanTitle(title string, suffixes []string) string {
	cleaned := title
	for _, suffix := range suffixes {
		cleaned = strings.Replace(cleaned, suffix, "", 1)
	}
	return strings.TrimSpace(cleaned)
}

// TitleImprover asks the AI to rewrite a headline. The caller is responsible
// for running the result through CleanTitle.
type TitleImprover struct {
	completer ai.Completer
}

func NewTitleImprover(completer ai.Completer) *TitleImprover {
	return &TitleImprover{completer: completer}
}

// Improve returns the rewritten title with quote characters stripped, or the
// original title unchanged on any error.
func (t *TitleImprover) Improve(ctx context.Context, article domain.Candidate) string {
	prompt := fmt.Sprintf(titlePromptTemplate,
		article.Title,
		orNA(article.Description),
		orNA(article.Content),
		article.Category,
	)

	title, err := t.completer.Complete(ctx, ai.Request{
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   100,
	})
	if err != nil {
		slog.Warn("title improvement failed, keeping original", "title", article.Title, "error", err)
		return article.Title
	}

	title = strings.NewReplacer(`"`, "", "'", "").Replace(strings.TrimSpace(title))
	if title == "" {
		return article.Title
	}

	return title
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
