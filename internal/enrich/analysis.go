package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
)

const categoryPromptTemplate = `Given this news article information, categorize it into ONE of these categories: US, World, Business, Technology, Science, Health, Sports, Lifestyle

Title: %s
Description: %s
Content: %s

Return ONLY the category name, nothing else.`

const analysisPromptTemplate = `Main Article Analysis Request:

Title: %s
Content: %s
Category: %s

Related Coverage:
%s

Please provide a comprehensive news analysis addressing the following elements:

1. Summary (2-3 paragraphs, max 20 sentences):
   - Who, What, When, Where, Why, and How with specific details
   - Include relevant numbers, proper nouns, and concrete examples
   - Historical context and background information

2. Multiple Perspectives:
   - Present diverse viewpoints from different news sources
   - Highlight any contrasting opinions or interpretations
   - Include expert opinions when available

3. Impact Analysis:
   - Immediate effects
   - Potential long-term consequences
   - Who is affected and how

4. Supporting Context:
   - Related historical events
   - Previous developments
   - Relevant statistics or data

Writing Guidelines:
- Maintain warm, accessible language while adhering to journalistic standards
- Ensure objectivity and neutrality
- Avoid sensationalism and emotional manipulation
- Use clear, concise language
- Include verified information only
- Acknowledge any limitations in available information
- End with a constructive, positive, or forward-looking perspective if possible`

const sentimentSystemPrompt = `Given a news article, analyze its sentiment and provide a percentage breakdown with careful consideration of specific content markers:

NEGATIVE markers (weight heavily):
- Deaths, accidents, disasters
- Violence, crime, conflict
- Economic losses, bankruptcies
- Environmental damage
- Social problems, discrimination
- Health crises, illnesses

POSITIVE markers (weight heavily):
- Achievements, successes, victories
- Scientific/medical breakthroughs
- Economic growth, job creation
- Environmental improvements
- Social progress, unity
- Health improvements, recoveries
- Aid, rescue, support actions

NEUTRAL markers:
- Factual statements
- Statistical reports
- Procedural updates
- Policy announcements
- General information

Return ONLY a JSON object with three percentage values that sum to 100:
{
  "positive": N,
  "neutral": N,
  "negative": N
}

Guidelines:
- Death/tragedy content should heavily influence negative scoring (at least 60% negative)
- Major positive developments should score at least 50% positive
- Multiple deaths/injuries should increase negative percentage substantially
- Rescue/recovery efforts in negative situations should add some positive weight
- Pure informational content should weight toward neutral
- Consider both explicit and implicit sentiment indicators`

// Analyzer produces the category, narrative analysis, and sentiment breakdown
// for one main article. Three sequential completions: the sentiment call
// classifies the generated narrative, not the raw sources, so the score
// reflects the synthesis the reader actually sees.
type Analyzer struct {
	completer ai.Completer
}

func NewAnalyzer(completer ai.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Generate runs the three analysis steps. Related articles are expected to
// already carry scraped full text where available. A failure in the category
// or narrative step aborts the whole analysis; an unparseable sentiment
// response degrades to the zero triple instead.
func (a *Analyzer) Generate(ctx context.Context, main domain.Candidate, related []domain.RelatedArticle) (*domain.Analysis, error) {
	category, err := a.categorize(ctx, main)
	if err != nil {
		return nil, fmt.Errorf("categorize article: %w", err)
	}

	narrative, err := a.narrate(ctx, main, category, related)
	if err != nil {
		return nil, fmt.Errorf("generate analysis: %w", err)
	}

	sentiment := a.classifySentiment(ctx, narrative)

	return &domain.Analysis{
		Category:  category,
		Narrative: narrative,
		Sentiment: sentiment,
	}, nil
}

func (a *Analyzer) categorize(ctx context.Context, main domain.Candidate) (domain.Category, error) {
	prompt := fmt.Sprintf(categoryPromptTemplate, main.Title, main.Description, main.Content)

	raw, err := a.completer.Complete(ctx, ai.Request{
		User:        prompt,
		Temperature: 0.3,
		MaxTokens:   10,
	})
	if err != nil {
		return "", err
	}

	return domain.NormalizeCategory(raw), nil
}

func (a *Analyzer) narrate(ctx context.Context, main domain.Candidate, category domain.Category, related []domain.RelatedArticle) (string, error) {
	content := main.Content
	if content == "" {
		content = main.Description
	}

	var coverage strings.Builder
	for _, r := range related {
		body := r.Content
		if body == "" {
			body = r.Description
		}
		fmt.Fprintf(&coverage, "- %s (%s)\n  Content: %s\n", r.Title, r.SourceName, body)
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, main.Title, content, category, coverage.String())

	return a.completer.Complete(ctx, ai.Request{
		User:        prompt,
		Temperature: 0.7,
		MaxTokens:   4000,
	})
}

// classifySentiment never fails: a missing or malformed response yields the
// zero triple so one flaky completion cannot sink an otherwise good record.
func (a *Analyzer) classifySentiment(ctx context.Context, narrative string) domain.Sentiment {
	raw, err := a.completer.Complete(ctx, ai.Request{
		System:      sentimentSystemPrompt,
		User:        narrative,
		Temperature: 0.3,
		MaxTokens:   100,
		JSONMode:    true,
	})
	if err != nil {
		slog.Warn("sentiment classification failed", "error", err)
		return domain.Sentiment{}
	}

	var sentiment domain.Sentiment
	if err := json.Unmarshal([]byte(raw), &sentiment); err != nil {
		slog.Warn("sentiment response is not valid JSON", "error", err)
		return domain.Sentiment{}
	}

	if !sentiment.Valid() {
		slog.Warn("sentiment triple violates contract", "positive", sentiment.Positive, "neutral", sentiment.Neutral, "negative", sentiment.Negative)
		return domain.Sentiment{}
	}

	return sentiment
}
