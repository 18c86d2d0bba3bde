package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultTimeout = 20 * time.Second

// contentSelector targets the structural containers most publishers wrap
// article bodies in. Paragraphs under them are joined with newlines.
const contentSelector = `article, [class*="article"], [class*="content"]`

// Scraper extracts plain article text from publisher pages. Every failure
// degrades to an empty result; scraping is best-effort by contract.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) string
}

type HTMLScraper struct {
	client *http.Client
}

var _ Scraper = (*HTMLScraper)(nil)

// NewHTMLScraper wires an HTTP client; a nil client gets a default timeout.
func NewHTMLScraper(client *http.Client) *HTMLScraper {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTMLScraper{client: client}
}

// Scrape fetches the page and returns its extracted body text, or the empty
// string when the fetch or parse fails. Errors are logged, never returned.
func (s *HTMLScraper) Scrape(ctx context.Context, pageURL string) string {
	content, err := s.scrape(ctx, pageURL)
	if err != nil {
		slog.Warn("scrape failed", "url", pageURL, "error", err)
		return ""
	}
	return content
}

func (s *HTMLScraper) scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("unsupported content type %s", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	return extractText(doc), nil
}

func extractText(doc *goquery.Document) string {
	var paragraphs []string
	seen := map[string]struct{}{}

	doc.Find(contentSelector).Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return
		}
		// nested article/content wrappers match the same paragraph twice
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		paragraphs = append(paragraphs, text)
	})

	return strings.Join(paragraphs, "\n")
}
