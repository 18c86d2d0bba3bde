package storage

import (
	"context"
	"errors"
	"time"

	"github.com/candemir/news-lens/internal/domain"
)

type Type string

const (
	PG    Type = "pg"
	InMem Type = "inmem"
)

// ErrNotFound is returned by lookups that matched no record.
var ErrNotFound = errors.New("news record not found")

// Gateway is the durable-storage collaborator of the enrichment pipeline.
// Upsert-by-URL is the only legal write path; records are never deleted here.
type Gateway interface {
	// CheckFresh returns up to limit records for the scope newer than maxAge,
	// newest first. An empty category means the global scope.
	CheckFresh(ctx context.Context, category domain.Category, maxAge time.Duration, limit int) ([]domain.NewsRecord, error)

	// Upsert writes a record keyed by its canonical URL. An existing row is
	// fully overwritten and its related-article children are replaced, never
	// merged.
	Upsert(ctx context.Context, record domain.NewsRecord) (domain.NewsRecord, error)

	// FindByURL looks a record up by its canonical URL.
	FindByURL(ctx context.Context, url string) (*domain.NewsRecord, error)

	// ListAll returns every stored record with its related children, newest
	// published first.
	ListAll(ctx context.Context) ([]domain.NewsRecord, error)
}
