// Package scrape fetches the main content of external web pages for
// ingestion.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	ErrNoContent    = errors.New("no content extracted from URL")
	ErrScrapeFailed = errors.New("failed to scrape URL")
)

const (
	DefaultBaseURL     = "https://api.firecrawl.dev"
	DefaultTimeoutSecs = 60
)

type Config struct {
	BaseURL     string `yaml:"baseURL"`
	APIKeyEnv   string `yaml:"apiKeyEnv"`
	TimeoutSecs int    `yaml:"timeoutSecs"`
}

// Result is the extracted page content. Title falls back to the URL
// when the page has none.
type Result struct {
	Content string
	Title   string
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

func NewFirecrawlFetcher(cfg Config) (Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "FIRECRAWL_API_KEY"
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = DefaultTimeoutSecs
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}

	return &firecrawlFetcher{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}, nil
}

type firecrawlFetcher struct {
	cfg    Config
	apiKey string
	client *http.Client
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Data struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

func (f *firecrawlFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	reqBody := scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	}

	data, err := json.Marshal(&reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.BaseURL+"/v1/scrape", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrScrapeFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}

	var scraped scrapeResponse
	if err := json.Unmarshal(body, &scraped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}

	if scraped.Data.Markdown == "" {
		return nil, ErrNoContent
	}

	title := scraped.Data.Metadata.Title
	if title == "" {
		title = url
	}

	return &Result{
		Content: scraped.Data.Markdown,
		Title:   title,
	}, nil
}
