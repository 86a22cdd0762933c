package benchmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gaia-agent/internal/application/port/input"
	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/usecase/evaluator"
)

var _ input.BenchmarkRunner = (*Runner)(nil)

// Reporter receives progress for display. Both methods must be cheap.
type Reporter interface {
	ShowQuestion(index, total int, q entity.Question)
	ShowResult(r entity.AnswerRecord)
}

type Runner struct {
	answerer input.QuestionAnswerer
	store    output.AnswerStore
	reporter Reporter
	logger   output.LoggerPort
}

// NewRunner wires a runner; reporter may be nil.
func NewRunner(answerer input.QuestionAnswerer, store output.AnswerStore, reporter Reporter, logger output.LoggerPort) *Runner {
	return &Runner{answerer: answerer, store: store, reporter: reporter, logger: logger}
}

// Run answers questions one after another. Every question yields exactly one
// record, whatever happened to it; only cancellation stops the batch early.
func (r *Runner) Run(ctx context.Context, questions []entity.LabeledQuestion) (entity.RunSummary, error) {
	summary := entity.RunSummary{RunID: uuid.NewString()}
	log := r.logger.WithField("runID", summary.RunID)
	log.Info("Benchmark run started", "questions", len(questions))

	var writeErrs []error
	for i, lq := range questions {
		if err := ctx.Err(); err != nil {
			log.Warn("Benchmark run cancelled", "completed", i)
			return summary, errors.Join(append(writeErrs, err)...)
		}

		q := lq.Question
		if r.reporter != nil {
			r.reporter.ShowQuestion(i+1, len(questions), q)
		}

		ans := r.answerer.Answer(ctx, q)
		record := entity.AnswerRecord{
			TaskID:      q.TaskID,
			Question:    q.Question,
			AgentAnswer: ans.Text,
			GroundTruth: lq.GroundTruth,
			IsCorrect:   ans.Err == nil && ans.Answered && evaluator.IsCorrect(ans.Text, lq.GroundTruth),
		}
		if ans.Err != nil {
			record.Error = ans.Err.Error()
		}

		if err := r.store.Write(record); err != nil {
			log.Error("Failed to write answer record", "taskID", q.TaskID, "error", err)
			writeErrs = append(writeErrs, fmt.Errorf("write %s: %w", q.TaskID, err))
		}

		summary.Add(record, ans.Answered)
		if r.reporter != nil {
			r.reporter.ShowResult(record)
		}
		log.Info("Question finished",
			"taskID", q.TaskID,
			"steps", ans.Steps,
			"answered", ans.Answered,
			"correct", record.IsCorrect)
	}

	log.Info("Benchmark run finished",
		"total", summary.Total,
		"correct", summary.Correct,
		"accuracy", summary.Accuracy)
	return summary, errors.Join(writeErrs...)
}
