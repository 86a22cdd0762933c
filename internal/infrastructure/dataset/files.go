package dataset

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gaia-agent/internal/application/port/output"
)

var _ output.FileLocator = (*FileCache)(nil)

// FileCache resolves question attachments for one split.
type FileCache struct {
	hub   *Hub
	year  string
	split string
}

func NewFileCache(hub *Hub, split string) *FileCache {
	if split == "" {
		split = DefaultSplit
	}
	return &FileCache{hub: hub, year: DefaultYear, split: split}
}

func (c *FileCache) Locate(ctx context.Context, fileName string) (string, error) {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%q: %w", fileName, ErrFileNotFound)
	}
	return c.hub.Fetch(ctx, path.Join(c.year, c.split, name))
}
