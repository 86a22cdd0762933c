package output

import (
	"context"

	"gaia-agent/internal/domain/entity"
)

type QuestionSource interface {
	GetQuestion(ctx context.Context) (entity.LabeledQuestion, error)
	GetQuestions(ctx context.Context) ([]entity.LabeledQuestion, error)
	GetQuestionByID(ctx context.Context, idOrIndex string) (entity.LabeledQuestion, error)
}

// FileLocator resolves a dataset attachment to a local path.
type FileLocator interface {
	Locate(ctx context.Context, fileName string) (string, error)
}

type FileExtractor interface {
	Extract(ctx context.Context, fileName string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type AnswerStore interface {
	Write(record entity.AnswerRecord) error
}
