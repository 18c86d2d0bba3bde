package factory

import (
	"context"
	"fmt"

	"github.com/candemir/news-lens/internal/storage"
	"github.com/candemir/news-lens/internal/storage/in_mem"
	"github.com/candemir/news-lens/internal/storage/pg"
)

// NewGateway creates a storage.Gateway based on the configured storage type.
func NewGateway(ctx context.Context, cfg *StorageConfig) (storage.Gateway, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return pg.NewGateway(pool)

	case storage.InMem:
		return in_mem.NewGateway(), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
