package llm

import (
	"context"
	"errors"
	"time"

	"gaia-agent/internal/application/port/output"

	backoff "github.com/cenkalti/backoff/v4"
)

var _ output.LLMPort = (*RetryingLLM)(nil)

// RetryingLLM retries failed model turns with exponential backoff. Client
// errors such as 400 and 401 fail at once. A retried turn may replay chunks
// the observer has already seen.
type RetryingLLM struct {
	delegate     output.LLMPort
	buildBackoff func() backoff.BackOff
	logger       output.LoggerPort
}

func DefaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 20 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

func NewRetryingLLM(delegate output.LLMPort, factory func() backoff.BackOff, logger output.LoggerPort) *RetryingLLM {
	if factory == nil {
		factory = DefaultBackoff
	}
	return &RetryingLLM{delegate: delegate, buildBackoff: factory, logger: logger}
}

func (r *RetryingLLM) ChatStream(ctx context.Context, req output.ChatRequest, onChunk output.ChunkHandler) (*output.ChatResponse, error) {
	var resp *output.ChatResponse
	attempt := 0

	op := func() error {
		attempt++
		var err error
		resp, err = r.delegate.ChatStream(ctx, req, onChunk)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		if !Retryable(err) {
			if r.logger != nil {
				r.logger.Error("Model turn rejected", "status", StatusCode(err), "error", err)
			}
			return backoff.Permanent(err)
		}
		if r.logger != nil {
			r.logger.Warn("Model turn failed, retrying", "attempt", attempt, "error", err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(r.buildBackoff(), ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}
