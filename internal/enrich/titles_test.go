package enrich

import (
	"context"
	"testing"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	suffixes := DefaultSourceList().TitleSuffixes

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "dash suffix", title: "Storm hits coast - BBC News", want: "Storm hits coast"},
		{name: "pipe suffix", title: "Finals preview | ESPN", want: "Finals preview"},
		{name: "no suffix", title: "Storm hits coast", want: "Storm hits coast"},
		{name: "trims whitespace", title: "  Storm hits coast - Reuters  ", want: "Storm hits coast"},
		{name: "unknown publisher kept", title: "Storm hits coast - Some Blog", want: "Storm hits coast - Some Blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.title, suffixes))
		})
	}
}

func TestCleanTitle_Idempotent(t *testing.T) {
	suffixes := DefaultSourceList().TitleSuffixes

	titles := []string{
		"Storm hits coast - BBC News",
		"Finals preview | ESPN",
		"Plain title with no suffix",
	}

	for _, title := range titles {
		once := CleanTitle(title, suffixes)
		twice := CleanTitle(once, suffixes)
		assert.Equal(t, once, twice, "cleaning twice must equal cleaning once for %q", title)
	}
}

func TestTitleImprover_Improve(t *testing.T) {
	improver := NewTitleImprover(completerFunc(func(ctx context.Context, req ai.Request) (string, error) {
		assert.Contains(t, req.User, "Original Title: Storm hits coast")
		assert.Contains(t, req.User, "Category: World")
		return `"Hurricane Makes Landfall in Florida, Thousands Evacuated"`, nil
	}))

	got := improver.Improve(t.Context(), domain.Candidate{
		Title:       "Storm hits coast",
		Description: "A storm made landfall.",
		Category:    "World",
	})

	assert.Equal(t, "Hurricane Makes Landfall in Florida, Thousands Evacuated", got,
		"quote characters must be stripped")
}

func TestTitleImprover_ReturnsOriginalOnError(t *testing.T) {
	improver := NewTitleImprover(failingCompleter)

	original := "Storm hits coast - BBC News"
	got := improver.Improve(t.Context(), domain.Candidate{Title: original})

	assert.Equal(t, original, got, "original title must come back uncleaned")
}
