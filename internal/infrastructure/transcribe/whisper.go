package transcribe

import (
	"context"
	"fmt"
	"strings"

	"gaia-agent/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
)

var _ output.Transcriber = (*Whisper)(nil)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  output.LoggerPort
}

// Whisper turns audio attachments into text through an OpenAI-compatible
// transcription endpoint.
type Whisper struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

func NewWhisper(cfg Config) *Whisper {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	return &Whisper{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (w *Whisper) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if w.logger != nil {
		w.logger.Debug("Audio transcribed", "path", path, "chars", len(resp.Text))
	}
	return strings.TrimSpace(resp.Text), nil
}
