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

const selectorSystemPrompt = `You pick the most important breaking news from a list of headline candidates.

Weigh these factors:
1. Immediacy and timeliness
2. Global/national impact
3. Public interest
4. Long-term significance
Prefer candidates backed by more related coverage.

Return ONLY a JSON object of this shape, selecting exactly %d candidates by their zero-based index and assigning each ONE category from: US, World, Business, Technology, Science, Health, Sports, Lifestyle

{
  "selections": [
    {"index": N, "category": "..."}
  ]
}`

// RankedCandidate is a headline candidate annotated with how much related
// coverage it attracted.
type RankedCandidate struct {
	Candidate    domain.Candidate
	RelatedCount int
}

// Selection points back into the candidate list by input index.
type Selection struct {
	Index    int             `json:"index"`
	Category domain.Category `json:"category"`
}

type selectorResponse struct {
	Selections []Selection `json:"selections"`
}

// BreakingSelector prunes a candidate batch down to the most important
// entries.
type BreakingSelector struct {
	completer ai.Completer
}

func NewBreakingSelector(completer ai.Completer) *BreakingSelector {
	return &BreakingSelector{completer: completer}
}

// SelectTop returns exactly min(target, len(candidates)) selections. A
// missing, malformed, or out-of-range AI response falls back to the first
// candidates in input order with a default category; it never fails.
func (s *BreakingSelector) SelectTop(ctx context.Context, candidates []RankedCandidate, target int) []Selection {
	if len(candidates) < target {
		target = len(candidates)
	}
	if target == 0 {
		return nil
	}

	var listing strings.Builder
	for i, rc := range candidates {
		fmt.Fprintf(&listing, "%d. Title: %s\n   Description: %s\n   Related coverage: %d articles\n",
			i, rc.Candidate.Title, orNA(rc.Candidate.Description), rc.RelatedCount)
	}

	raw, err := s.completer.Complete(ctx, ai.Request{
		System:      fmt.Sprintf(selectorSystemPrompt, target),
		User:        listing.String(),
		Temperature: 0.3,
		MaxTokens:   300,
		JSONMode:    true,
	})
	if err != nil {
		slog.Warn("breaking news selection failed, using input order", "error", err)
		return fallbackSelections(candidates, target)
	}

	var parsed selectorResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		slog.Warn("breaking news selection is not valid JSON", "error", err)
		return fallbackSelections(candidates, target)
	}

	selections := make([]Selection, 0, target)
	seen := map[int]struct{}{}
	for _, sel := range parsed.Selections {
		if sel.Index < 0 || sel.Index >= len(candidates) {
			continue
		}
		if _, dup := seen[sel.Index]; dup {
			continue
		}
		seen[sel.Index] = struct{}{}

		sel.Category = domain.NormalizeCategory(string(sel.Category))
		selections = append(selections, sel)
		if len(selections) == target {
			break
		}
	}

	if len(selections) < target {
		slog.Warn("breaking news selection incomplete, using input order", "got", len(selections), "want", target)
		return fallbackSelections(candidates, target)
	}

	return selections
}

func fallbackSelections(candidates []RankedCandidate, target int) []Selection {
	selections := make([]Selection, 0, target)
	for i := 0; i < target; i++ {
		category := domain.NormalizeCategory(candidates[i].Candidate.Category)
		selections = append(selections, Selection{Index: i, Category: category})
	}
	return selections
}
