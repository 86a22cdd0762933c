package output

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

// ChunkHandler observes streamed fragments. It must not influence the turn.
type ChunkHandler func(entity.StreamChunk)

type LLMPort interface {
	ChatStream(ctx context.Context, req ChatRequest, onChunk ChunkHandler) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message    entity.Message
	StopReason string
}
