package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a raw headline pulled from the news-search API. It has no
// identity beyond its URL and is never persisted directly.
type Candidate struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`

	// Unavailable marks candidates whose title or content the upstream API
	// replaced with its removed-content placeholder.
	Unavailable bool `json:"-"`

	Category string `json:"category,omitempty"`
}

// RelatedArticle is secondary coverage attached to exactly one news record.
// It lives and dies with its parent: the full set is replaced on every
// enrichment cycle.
type RelatedArticle struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	Description   string    `json:"description,omitempty"`
	Content       string    `json:"content,omitempty"`
	URL           string    `json:"url"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	PublishedAt   time.Time `json:"publishedAt"`
	SourceName    string    `json:"sourceName"`
}

// Sentiment is a percentage breakdown of an article's tone. A valid triple
// has non-negative parts summing to 100; the zero value stands in when the
// AI response could not be parsed.
type Sentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// IsZero reports whether no sentiment was produced.
func (s Sentiment) IsZero() bool {
	return s.Positive == 0 && s.Neutral == 0 && s.Negative == 0
}

// Valid reports whether the triple satisfies the structural contract.
func (s Sentiment) Valid() bool {
	if s.Positive < 0 || s.Neutral < 0 || s.Negative < 0 {
		return false
	}
	return s.Positive+s.Neutral+s.Negative == 100
}

// Analysis is the per-cycle AI output attached to one news record.
type Analysis struct {
	Category  Category  `json:"category"`
	Narrative string    `json:"analysis"`
	Sentiment Sentiment `json:"sentiment"`
}

// NewsRecord is the canonical persisted unit. URL is the sole natural
// identity: re-ingesting the same URL updates the existing row.
type NewsRecord struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	OriginalTitle string           `json:"originalTitle,omitempty"`
	Description   string           `json:"description,omitempty"`
	Content       string           `json:"content,omitempty"`
	URL           string           `json:"url"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	PublishedAt   time.Time        `json:"publishedAt"`
	SourceName    string           `json:"sourceName"`
	Category      Category         `json:"category,omitempty"`
	Analysis      string           `json:"analysis,omitempty"`
	Sentiment     Sentiment        `json:"sentiment"`
	Related       []RelatedArticle `json:"relatedArticles"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
