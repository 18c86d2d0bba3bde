package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/candemir/news-lens/internal/domain"
)

// removedSentinel is the placeholder the upstream API substitutes when a
// publisher pulls an article. Candidates carrying it are tagged unavailable
// instead of leaking the magic string downstream.
const removedSentinel = "[Removed]"

const defaultTimeout = 30 * time.Second

type ClientConfig struct {
	BaseURL string
	APIKey  string
}

type ClientOption func(*Client)

// Client talks to a NewsAPI-compatible search service.
type Client struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("news api key is not set")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	client := &Client{
		base:   *base,
		apiKey: cfg.APIKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

type TopHeadlinesParams struct {
	Sources  []string
	Country  string
	Category string
	PageSize int
}

type EverythingParams struct {
	Query          string
	Sources        []string
	ExcludeDomains []string
	Language       string
	SortBy         string
	PageSize       int
	From           time.Time
	To             time.Time
}

type apiSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiArticle struct {
	Source      apiSource `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
}

type apiResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

// TopHeadlines fetches current headline candidates.
func (c *Client) TopHeadlines(ctx context.Context, params TopHeadlinesParams) ([]domain.Candidate, error) {
	q := url.Values{}
	if len(params.Sources) > 0 {
		q.Set("sources", strings.Join(params.Sources, ","))
	}
	if params.Country != "" {
		q.Set("country", params.Country)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}

	return c.fetch(ctx, "/v2/top-headlines", q)
}

// Everything searches the full article corpus.
func (c *Client) Everything(ctx context.Context, params EverythingParams) ([]domain.Candidate, error) {
	q := url.Values{}
	q.Set("q", params.Query)
	if len(params.Sources) > 0 {
		q.Set("sources", strings.Join(params.Sources, ","))
	}
	if len(params.ExcludeDomains) > 0 {
		q.Set("excludeDomains", strings.Join(params.ExcludeDomains, ","))
	}
	if params.Language != "" {
		q.Set("language", params.Language)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if !params.From.IsZero() {
		q.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		q.Set("to", params.To.Format("2006-01-02"))
	}

	return c.fetch(ctx, "/v2/everything", q)
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]domain.Candidate, error) {
	query.Set("apiKey", c.apiKey)

	reqURL := c.base.JoinPath(path)
	reqURL.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("news api error %d: %s %s", resp.StatusCode, parsed.Code, parsed.Message)
	}

	candidates := make([]domain.Candidate, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		candidates = append(candidates, mapCandidate(a))
	}

	return candidates, nil
}

func mapCandidate(a apiArticle) domain.Candidate {
	return domain.Candidate{
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		PublishedAt: a.PublishedAt,
		SourceName:  a.Source.Name,
		Unavailable: a.Title == removedSentinel || a.Content == removedSentinel,
	}
}
