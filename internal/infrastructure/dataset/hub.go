package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var ErrFileNotFound = entity.ErrFileNotFound

const (
	DefaultHubURL  = "https://huggingface.co"
	DefaultRepo    = "gaia-benchmark/GAIA"
	DefaultYear    = "2023"
	DefaultSplit   = "validation"
	defaultRefName = "main"
)

type HubConfig struct {
	BaseURL  string
	Repo     string
	Revision string
	Token    string
	// CacheDir mirrors the repository layout, e.g. <CacheDir>/2023/validation/x.xlsx.
	CacheDir string
	Timeout  time.Duration
	Logger   output.LoggerPort
}

func DefaultHubConfig(token, cacheDir string) HubConfig {
	return HubConfig{
		BaseURL:  DefaultHubURL,
		Repo:     DefaultRepo,
		Revision: defaultRefName,
		Token:    token,
		CacheDir: cacheDir,
		Timeout:  5 * time.Minute,
	}
}

// Hub is a download-once cache over the dataset repository files.
type Hub struct {
	cfg    HubConfig
	client *http.Client
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHubURL
	}
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	if cfg.Revision == "" {
		cfg.Revision = defaultRefName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Hub{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (h *Hub) localPath(repoPath string) string {
	return filepath.Join(h.cfg.CacheDir, filepath.FromSlash(repoPath))
}

// Fetch returns the local path of repoPath, downloading it on first use.
func (h *Hub) Fetch(ctx context.Context, repoPath string) (string, error) {
	local := h.localPath(repoPath)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, nil
	}

	url := fmt.Sprintf("%s/datasets/%s/resolve/%s/%s", h.cfg.BaseURL, h.cfg.Repo, h.cfg.Revision, path.Clean(repoPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	if h.cfg.Logger != nil {
		h.cfg.Logger.Info("Downloading dataset file", "path", repoPath)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", repoPath, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", repoPath, ErrFileNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("download %s: unexpected status %d", repoPath, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(local), ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", repoPath, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", fmt.Errorf("move %s into cache: %w", repoPath, err)
	}
	return local, nil
}
