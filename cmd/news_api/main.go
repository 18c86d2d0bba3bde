// Package main News Lens API
// @title News Lens API
// @version 1.0
// @description An AI news-enrichment service: cross-source coverage, analysis, sentiment and search
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/candemir/news-lens/internal/ai"
	"github.com/candemir/news-lens/internal/apperr"
	"github.com/candemir/news-lens/internal/enrich"
	"github.com/candemir/news-lens/internal/newsapi"
	"github.com/candemir/news-lens/internal/router"
	"github.com/candemir/news-lens/internal/scrape"
	"github.com/candemir/news-lens/internal/server"
	"github.com/candemir/news-lens/internal/service"
	"github.com/candemir/news-lens/internal/storage/es"
	"github.com/candemir/news-lens/internal/storage/factory"
	pkgserver "github.com/candemir/news-lens/pkg/server"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gateway, err := factory.NewGateway(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage gateway", "error", err)
		os.Exit(1)
	}

	newsClient, err := newsapi.NewClient(cfg.NewsAPI)
	if err != nil {
		slog.Error("Failed to create news client", "error", err)
		os.Exit(1)
	}

	aiClient, err := ai.NewClient(cfg.AI)
	if err != nil {
		slog.Error("Failed to create AI client", "error", err)
		os.Exit(1)
	}

	scraper := scrape.NewHTMLScraper(&http.Client{})
	enricher := enrich.NewEnricher(newsClient, aiClient, scraper, cfg.Sources)

	var serviceOpts []service.Option
	var searcher *es.Searcher
	if cfg.Storage.Es != nil {
		indexer, err := es.NewIndexer(ctx, *cfg.Storage.Es)
		if err != nil {
			slog.Error("Failed to create search indexer", "error", err)
			os.Exit(1)
		}
		serviceOpts = append(serviceOpts, service.WithIndexer(indexer))

		searcher, err = es.NewSearcher(*cfg.Storage.Es)
		if err != nil {
			slog.Error("Failed to create searcher", "error", err)
			os.Exit(1)
		}
		slog.Info("Search mirroring enabled", "index", cfg.Storage.Es.IndexName)
	} else {
		slog.Info("Search mirroring disabled")
	}

	svc := service.NewNewsService(gateway, enricher, aiClient, serviceOpts...)

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	healthChecker := pkgserver.NewOkHealthChecker()
	e.GET("/health", func(c echo.Context) error {
		if !healthChecker.Healthy(c.Request().Context()) {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.String(http.StatusOK, "healthy")
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "News Lens API is running")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.NewNewsRouter(e, svc).Bind()
	if searcher != nil {
		router.NewSearchRouter(e, searcher).Bind()
	}

	s := server.NewServer(e, sCfg)
	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
