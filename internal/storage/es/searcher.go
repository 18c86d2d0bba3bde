package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

// searchFields carries the application-determined boosts: the headline
// outranks body text, the generated analysis sits in between.
var searchFields = []string{"title^2.0", "analysis^1.5", "description", "content", "related_titles"}

type SearchHit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	SourceName  string    `json:"sourceName"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	Score       float64   `json:"score"`
}

type SearchResult struct {
	Hits         []SearchHit `json:"hits"`
	TotalMatches int64       `json:"totalMatches"`
}

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Searcher{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Search runs a multi_match query over the enriched-news index. An empty
// category searches every scope.
func (r *Searcher) Search(ctx context.Context, query string, category string, size int) (*SearchResult, error) {
	slog.Info("Executing es news search",
		"query", query,
		"category", category,
		"size", size)

	or := operator.Or
	multiMatch := &types.MultiMatchQuery{
		Query:    query,
		Fields:   searchFields,
		Operator: &or,
	}

	esQuery := &types.Query{MultiMatch: multiMatch}
	if category != "" {
		esQuery = &types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{{MultiMatch: multiMatch}},
				Filter: []types.Query{{
					Term: map[string]types.TermQuery{
						"category": {Value: category},
					},
				}},
			},
		}
	}

	sortOrderDesc := sortorder.Desc
	res, err := r.client.Search().
		Index(r.indexName).
		Query(esQuery).
		Size(size).
		TrackScores(true).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"_score": {Order: &sortOrderDesc},
			},
		}).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	hits, err := r.mapToResult(res.Hits.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to map search results: %w", err)
	}

	slog.Info("Es search results fetched",
		"total_matches", res.Hits.Total.Value,
		"returned_count", len(hits))

	return &SearchResult{
		Hits:         hits,
		TotalMatches: res.Hits.Total.Value,
	}, nil
}

func (r *Searcher) mapToResult(esHits []types.Hit) ([]SearchHit, error) {
	hits := make([]SearchHit, 0, len(esHits))

	for _, hit := range esHits {
		var doc NewsDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		var score float64
		if hit.Score_ != nil {
			score = float64(*hit.Score_)
		}

		hits = append(hits, SearchHit{
			ID:          doc.ID,
			Title:       doc.Title,
			Description: doc.Description,
			URL:         doc.URL,
			SourceName:  doc.SourceName,
			Category:    doc.Category,
			PublishedAt: doc.PublishedAt,
			Score:       score,
		})
	}

	return hits, nil
}
