package search

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var _ output.SearchPort = (*CachingSearch)(nil)

const DefaultCacheSize = 256

// CachingSearch remembers results per normalized query so repeated lookups
// across a run cost one upstream call. Failures are not cached.
type CachingSearch struct {
	delegate output.SearchPort
	cache    *lru.Cache[string, []entity.SearchResult]
	logger   output.LoggerPort
}

func NewCachingSearch(delegate output.SearchPort, size int, logger output.LoggerPort) (*CachingSearch, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []entity.SearchResult](size)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}
	return &CachingSearch{delegate: delegate, cache: cache, logger: logger}, nil
}

func cacheKey(query string, maxResults int) string {
	return fmt.Sprintf("%d|%s", maxResults, strings.Join(strings.Fields(strings.ToLower(query)), " "))
}

func (c *CachingSearch) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error) {
	key := cacheKey(query, maxResults)
	if results, ok := c.cache.Get(key); ok {
		c.logger.Debug("Search cache hit", "query", query)
		return append([]entity.SearchResult(nil), results...), nil
	}

	results, err := c.delegate.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append([]entity.SearchResult(nil), results...))
	return results, nil
}
