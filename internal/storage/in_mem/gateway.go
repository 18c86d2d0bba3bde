package in_mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/storage"
	"github.com/google/uuid"
)

// Gateway keeps records in a URL-keyed map. It exists for local runs and
// tests; nothing survives a restart.
type Gateway struct {
	mu      sync.RWMutex
	records map[string]domain.NewsRecord
}

var _ storage.Gateway = (*Gateway)(nil)

func NewGateway() *Gateway {
	return &Gateway{
		records: make(map[string]domain.NewsRecord),
	}
}

func (g *Gateway) Upsert(_ context.Context, record domain.NewsRecord) (domain.NewsRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if existing, ok := g.records[record.URL]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	for i := range record.Related {
		if record.Related[i].ID == uuid.Nil {
			record.Related[i].ID = uuid.New()
		}
	}

	g.records[record.URL] = cloneRecord(record)
	return record, nil
}

func (g *Gateway) CheckFresh(_ context.Context, category domain.Category, maxAge time.Duration, limit int) ([]domain.NewsRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	since := time.Now().Add(-maxAge)

	var fresh []domain.NewsRecord
	for _, record := range g.records {
		if category != "" && record.Category != category {
			continue
		}
		if record.CreatedAt.Before(since) {
			continue
		}
		fresh = append(fresh, cloneRecord(record))
	}

	sortByPublished(fresh)
	if limit > 0 && len(fresh) > limit {
		fresh = fresh[:limit]
	}

	return fresh, nil
}

func (g *Gateway) FindByURL(_ context.Context, url string) (*domain.NewsRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	record, ok := g.records[url]
	if !ok {
		return nil, storage.ErrNotFound
	}

	clone := cloneRecord(record)
	return &clone, nil
}

func (g *Gateway) ListAll(_ context.Context) ([]domain.NewsRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := make([]domain.NewsRecord, 0, len(g.records))
	for _, record := range g.records {
		all = append(all, cloneRecord(record))
	}

	sortByPublished(all)
	return all, nil
}

func sortByPublished(records []domain.NewsRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})
}

// cloneRecord copies the related slice so callers cannot mutate stored state.
func cloneRecord(record domain.NewsRecord) domain.NewsRecord {
	related := make([]domain.RelatedArticle, len(record.Related))
	copy(related, record.Related)
	record.Related = related
	return record
}
