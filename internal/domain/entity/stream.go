package entity

type ChunkKind string

const (
	ChunkThinking  ChunkKind = "thinking"
	ChunkSignature ChunkKind = "signature"
	ChunkText      ChunkKind = "text"
	ChunkToolUse   ChunkKind = "tool_use"
	ChunkToolArgs  ChunkKind = "tool_args"
	ChunkStop      ChunkKind = "stop"
)

// StreamChunk is one incremental fragment of a model turn.
type StreamChunk struct {
	Kind       ChunkKind
	Text       string
	ToolName   string
	StopReason string
}

func (c StreamChunk) Known() bool {
	switch c.Kind {
	case ChunkThinking, ChunkSignature, ChunkText, ChunkToolUse, ChunkToolArgs, ChunkStop:
		return true
	}
	return false
}
