package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const newsColumns = `id, title, original_title, description, content, url, image_url,
	published_at, source_name, category, analysis, sentiment, created_at, updated_at`

// Gateway stores enriched news records in Postgres. The url column carries a
// unique constraint; writes go through ON CONFLICT upsert so concurrent
// cycles for the same URL cannot duplicate rows.
type Gateway struct {
	db *pgxpool.Pool
}

var _ storage.Gateway = (*Gateway)(nil)

func NewGateway(pool *ConnectionPool) (*Gateway, error) {
	return &Gateway{db: pool.conn}, nil
}

func (g *Gateway) Upsert(ctx context.Context, record domain.NewsRecord) (domain.NewsRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	sentimentJSON, err := json.Marshal(record.Sentiment)
	if err != nil {
		return domain.NewsRecord{}, fmt.Errorf("failed to marshal sentiment: %w", err)
	}

	tx, err := g.db.Begin(ctx)
	if err != nil {
		return domain.NewsRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd := `
		INSERT INTO news (id, title, original_title, description, content, url, image_url,
			published_at, source_name, category, analysis, sentiment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			original_title = EXCLUDED.original_title,
			description = EXCLUDED.description,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			published_at = EXCLUDED.published_at,
			source_name = EXCLUDED.source_name,
			category = EXCLUDED.category,
			analysis = EXCLUDED.analysis,
			sentiment = EXCLUDED.sentiment,
			updated_at = now()
		RETURNING id, created_at, updated_at;
	`
	err = tx.QueryRow(
		ctx,
		cmd,
		record.ID,
		record.Title,
		record.OriginalTitle,
		record.Description,
		record.Content,
		record.URL,
		record.ImageURL,
		record.PublishedAt,
		record.SourceName,
		string(record.Category),
		record.Analysis,
		sentimentJSON,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return domain.NewsRecord{}, fmt.Errorf("failed to upsert news record: %w", err)
	}

	// the related set is replaced wholesale so stale children cannot pile up
	if _, err := tx.Exec(ctx, `DELETE FROM related_articles WHERE news_id = $1`, record.ID); err != nil {
		return domain.NewsRecord{}, fmt.Errorf("failed to clear related articles: %w", err)
	}

	for i := range record.Related {
		related := &record.Related[i]
		if related.ID == uuid.Nil {
			related.ID = uuid.New()
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO related_articles (id, news_id, title, original_title, description,
				content, url, image_url, published_at, source_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			related.ID,
			record.ID,
			related.Title,
			related.OriginalTitle,
			related.Description,
			related.Content,
			related.URL,
			related.ImageURL,
			related.PublishedAt,
			related.SourceName,
		)
		if err != nil {
			return domain.NewsRecord{}, fmt.Errorf("failed to insert related article: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.NewsRecord{}, fmt.Errorf("failed to commit upsert: %w", err)
	}

	return record, nil
}

func (g *Gateway) CheckFresh(ctx context.Context, category domain.Category, maxAge time.Duration, limit int) ([]domain.NewsRecord, error) {
	since := time.Now().Add(-maxAge)

	query := fmt.Sprintf(`
		SELECT %s FROM news
		WHERE ($1 = '' OR category = $1) AND created_at >= $2
		ORDER BY published_at DESC
		LIMIT $3`, newsColumns)

	rows, err := g.db.Query(ctx, query, string(category), since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fresh records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	return g.attachRelated(ctx, records)
}

func (g *Gateway) FindByURL(ctx context.Context, url string) (*domain.NewsRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE url = $1`, newsColumns)

	rows, err := g.db.Query(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query record by url: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}

	records, err = g.attachRelated(ctx, records)
	if err != nil {
		return nil, err
	}

	return &records[0], nil
}

func (g *Gateway) ListAll(ctx context.Context) ([]domain.NewsRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM news ORDER BY published_at DESC`, newsColumns)

	rows, err := g.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	return g.attachRelated(ctx, records)
}

func scanRecords(rows pgx.Rows) ([]domain.NewsRecord, error) {
	var records []domain.NewsRecord

	for rows.Next() {
		var record domain.NewsRecord
		var sentimentJSON []byte
		var category string

		if err := rows.Scan(
			&record.ID,
			&record.Title,
			&record.OriginalTitle,
			&record.Description,
			&record.Content,
			&record.URL,
			&record.ImageURL,
			&record.PublishedAt,
			&record.SourceName,
			&category,
			&record.Analysis,
			&sentimentJSON,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news record: %w", err)
		}

		record.Category = domain.Category(category)
		if len(sentimentJSON) > 0 {
			if err := json.Unmarshal(sentimentJSON, &record.Sentiment); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sentiment: %w", err)
			}
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func (g *Gateway) attachRelated(ctx context.Context, records []domain.NewsRecord) ([]domain.NewsRecord, error) {
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, len(records))
	index := make(map[uuid.UUID]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
		index[r.ID] = i
		records[i].Related = []domain.RelatedArticle{}
	}

	rows, err := g.db.Query(ctx, `
		SELECT news_id, id, title, original_title, description, content, url,
			image_url, published_at, source_name
		FROM related_articles
		WHERE news_id = ANY($1)
		ORDER BY published_at DESC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query related articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var newsID uuid.UUID
		var related domain.RelatedArticle

		if err := rows.Scan(
			&newsID,
			&related.ID,
			&related.Title,
			&related.OriginalTitle,
			&related.Description,
			&related.Content,
			&related.URL,
			&related.ImageURL,
			&related.PublishedAt,
			&related.SourceName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan related article: %w", err)
		}

		if i, ok := index[newsID]; ok {
			records[i].Related = append(records[i].Related, related)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related rows: %w", err)
	}

	return records, nil
}

// IsUniqueViolation reports whether err is the url-uniqueness constraint
// firing, which callers may treat as a retryable race rather than a failure.
func IsUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
