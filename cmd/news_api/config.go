package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/enrich"
	"github.com/candemir/news-lens/internal/newsapi"
	"github.com/candemir/news-lens/internal/storage/factory"
	"github.com/candemir/news-lens/pkg/config/env"
)

const (
	defaultNewsAPIBaseURL = "https://newsapi.org"
	defaultAIBaseURL      = "https://api.openai.com"
	defaultAIModel        = "gpt-4o"
)

type AppConfig struct {
	Storage *factory.StorageConfig
	NewsAPI newsapi.ClientConfig
	AI      ai.ClientConfig
	Sources enrich.SourceList
}

func NewAppConfig() *AppConfig {
	return &AppConfig{}
}

func (c *AppConfig) Load() (*AppConfig, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/news_api/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage configuration: %w", err)
	}
	c.Storage = storageCfg

	c.NewsAPI = newsapi.ClientConfig{
		BaseURL: envOrDefault("NEWSAPI_BASE_URL", defaultNewsAPIBaseURL),
		APIKey:  os.Getenv("NEWSAPI_KEY"),
	}

	c.AI = ai.ClientConfig{
		BaseURL: envOrDefault("OPENAI_BASE_URL", defaultAIBaseURL),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   envOrDefault("OPENAI_MODEL", defaultAIModel),
	}

	c.Sources = enrich.DefaultSourceList()
	if path := os.Getenv("SOURCES_FILE"); path != "" {
		sources, err := enrich.LoadSourceListFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load sources file: %w", err)
		}
		c.Sources = sources
		slog.Info("Loaded source list", "path", path, "preferred", len(sources.Preferred))
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
