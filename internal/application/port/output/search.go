package output

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

type SearchPort interface {
	Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error)
}
