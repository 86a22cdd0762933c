package input

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

// ExecuteResult is the outcome of one agent loop run. Answered is false when
// the step ceiling was reached without a submitted answer.
type ExecuteResult struct {
	State    *entity.ConversationState
	Steps    int
	Answered bool
}

type TaskExecutor interface {
	Execute(ctx context.Context, state *entity.ConversationState) (*ExecuteResult, error)
}
