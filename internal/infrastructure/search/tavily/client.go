package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/infrastructure/htmltext"
)

var _ output.SearchPort = (*Client)(nil)

const DefaultBaseURL = "https://api.tavily.com"

type Config struct {
	APIKey      string
	BaseURL     string
	SearchDepth string
	Timeout     time.Duration
	Logger      output.LoggerPort
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		SearchDepth: "basic",
		Timeout:     30 * time.Second,
	}
}

type Client struct {
	cfg    Config
	client *http.Client
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Query        string         `json:"query"`
	ResponseTime float64        `json:"response_time"`
	Results      []searchResult `json:"results"`
}

type searchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error) {
	body, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: c.cfg.SearchDepth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug("Tavily search completed", "query", query, "results", len(parsed.Results), "responseTime", parsed.ResponseTime)
	}

	results := make([]entity.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		results = append(results, entity.SearchResult{
			Title:   htmltext.PlainText(r.Title, nil),
			URL:     r.URL,
			Content: htmltext.PlainText(r.Content, nil),
			Score:   r.Score,
		})
	}
	return results, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
