package es

import (
	"time"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

// NewsDocument is the index-side shape of an enriched record. Related
// coverage is flattened to titles so the search index stays lean; the full
// children live in Postgres.
type NewsDocument struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	Analysis      string    `json:"analysis"`
	URL           string    `json:"url"`
	SourceName    string    `json:"source_name"`
	Category      string    `json:"category"`
	RelatedTitles []string  `json:"related_titles"`
	PublishedAt   time.Time `json:"published_at"`
	IndexedAt     time.Time `json:"indexed_at"`
}

type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) mapToDocument(record domain.NewsRecord) NewsDocument {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	relatedTitles := make([]string, 0, len(record.Related))
	for _, related := range record.Related {
		relatedTitles = append(relatedTitles, related.Title)
	}

	return NewsDocument{
		ID:            record.ID.String(),
		Title:         record.Title,
		Description:   record.Description,
		Content:       record.Content,
		Analysis:      record.Analysis,
		URL:           record.URL,
		SourceName:    record.SourceName,
		Category:      string(record.Category),
		RelatedTitles: relatedTitles,
		PublishedAt:   record.PublishedAt,
		IndexedAt:     time.Now(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"news_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":             types.NewKeywordProperty(),
			"title":          b.createTextPropertyWithKeyword("news_analyzer"),
			"description":    b.createTextProperty("news_analyzer"),
			"content":        b.createTextProperty("news_analyzer"),
			"analysis":       b.createTextProperty("news_analyzer"),
			"url":            types.NewKeywordProperty(),
			"source_name":    b.createTextPropertyWithKeyword(""),
			"category":       types.NewKeywordProperty(),
			"related_titles": b.createTextProperty("news_analyzer"),
			"published_at":   types.NewDateProperty(),
			"indexed_at":     types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
