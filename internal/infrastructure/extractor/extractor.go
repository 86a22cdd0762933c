package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var (
	_ output.FileExtractor = (*Extractor)(nil)

	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileNotFound      = entity.ErrFileNotFound
)

// ExtractionError is the single failure type of Extract.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type handler func(ctx context.Context, path string) (string, error)

type Extractor struct {
	locator     output.FileLocator
	transcriber output.Transcriber
	logger      output.LoggerPort
	handlers    map[Format]handler
}

// New builds an extractor. transcriber may be nil, in which case audio files fail to extract.
func New(locator output.FileLocator, transcriber output.Transcriber, logger output.LoggerPort) *Extractor {
	e := &Extractor{locator: locator, transcriber: transcriber, logger: logger}
	e.handlers = map[Format]handler{
		FormatDocx:  func(_ context.Context, path string) (string, error) { return readDocx(path) },
		FormatXlsx:  func(_ context.Context, path string) (string, error) { return readXlsx(path) },
		FormatText:  func(_ context.Context, path string) (string, error) { return readText(path) },
		FormatAudio: e.transcribe,
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, fileName string) (string, error) {
	format := FormatOf(fileName)
	h, ok := e.handlers[format]
	if !ok {
		return "", &ExtractionError{FileName: fileName, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, Extension(fileName))}
	}

	path, err := e.locator.Locate(ctx, fileName)
	if err != nil {
		return "", &ExtractionError{FileName: fileName, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &ExtractionError{FileName: fileName, Err: fmt.Errorf("%s: %w", path, ErrFileNotFound)}
	}

	e.logger.Info("Extracting file contents", "file", fileName, "format", format.String())

	text, err := h(ctx, path)
	if err != nil {
		return "", &ExtractionError{FileName: fileName, Err: err}
	}

	e.logger.Debug("Text extracted from file", "file", fileName, "chars", len(text))
	return text, nil
}

func (e *Extractor) transcribe(ctx context.Context, path string) (string, error) {
	if e.transcriber == nil {
		return "", errors.New("no speech-to-text backend configured")
	}
	return e.transcriber.Transcribe(ctx, path)
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
