package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gaia-agent/internal/application/port/output"
)

const DefaultSearchResults = 2

type SearchTool struct {
	search     output.SearchPort
	maxResults int
	logger     output.LoggerPort
}

func NewSearchTool(search output.SearchPort, maxResults int, logger output.LoggerPort) *SearchTool {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	return &SearchTool{search: search, maxResults: maxResults, logger: logger}
}

func (t *SearchTool) Name() string { return "tavily_search" }
func (t *SearchTool) Description() string {
	return "A search engine optimized for comprehensive, accurate, and trusted results. Useful for when you need to answer questions about current events or look up facts. Input should be a search query."
}
func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query to look up",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid input format: %w", err)
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return "", fmt.Errorf("query parameter is required")
	}

	t.logger.Info("Searching the web", "query", query)

	results, err := t.search.Search(ctx, query, t.maxResults)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	data, err := json.Marshal(map[string]any{
		"query":   query,
		"results": results,
	})
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return string(data), nil
}
