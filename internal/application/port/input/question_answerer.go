package input

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

type Answer struct {
	Text     string
	Answered bool
	Steps    int
	Err      error
}

type QuestionAnswerer interface {
	Answer(ctx context.Context, q entity.Question) Answer
}

type BenchmarkRunner interface {
	Run(ctx context.Context, questions []entity.LabeledQuestion) (entity.RunSummary, error)
}
