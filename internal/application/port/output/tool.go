package output

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

type ToolPort interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}

// StatefulToolPort is a tool that reads the question being answered and may
// return the final answer for the conversation.
type StatefulToolPort interface {
	ToolPort
	ExecuteWithState(ctx context.Context, arguments string, question entity.Question) (string, *entity.FinalAnswer, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name string) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
