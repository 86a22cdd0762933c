package benchmark

import (
	"context"
	"fmt"

	"gaia-agent/internal/application/port/input"
	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/infrastructure/prompts"
)

var _ input.QuestionAnswerer = (*Answerer)(nil)

const (
	UnreadableFileAnswer = "I don't know - I can't handle this file!"
	NoAnswer             = "I don't know!"
)

// Answerer runs one question through the agent loop.
type Answerer struct {
	extractor    output.FileExtractor
	executor     input.TaskExecutor
	logger       output.LoggerPort
	systemPrompt string
}

func NewAnswerer(extractor output.FileExtractor, executor input.TaskExecutor, logger output.LoggerPort, systemPrompt string) *Answerer {
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt
	}
	return &Answerer{
		extractor:    extractor,
		executor:     executor,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
}

func (a *Answerer) Answer(ctx context.Context, q entity.Question) input.Answer {
	log := a.logger.WithField("taskID", q.TaskID)

	var document string
	if q.HasFile() {
		text, err := a.extractor.Extract(ctx, q.FileName)
		if err != nil {
			log.Error("File extraction failed", "file", q.FileName, "error", err)
			return input.Answer{Text: UnreadableFileAnswer, Err: err}
		}
		document = text
	}

	userText, err := prompts.BuildUserPrompt(prompts.UserPromptData{Question: q.Question, Document: document})
	if err != nil {
		return input.Answer{Text: NoAnswer, Err: err}
	}

	state := entity.NewConversationState(q,
		entity.Message{Role: entity.RoleSystem, Content: a.systemPrompt},
		entity.Message{Role: entity.RoleUser, Content: userText},
	)

	log.Debug("Initialized conversation", "hasFile", q.HasFile(), "promptChars", len(userText))

	res, err := a.executor.Execute(ctx, state)
	if err != nil {
		log.Error("Agent loop failed", "error", err)
		return input.Answer{Text: NoAnswer, Err: fmt.Errorf("agent loop: %w", err)}
	}
	if !res.Answered || res.State.FinalAnswer == nil {
		log.Warn("No final answer submitted", "steps", res.Steps)
		return input.Answer{Text: NoAnswer, Steps: res.Steps}
	}

	return input.Answer{
		Text:     res.State.FinalAnswer.AgentAnswer,
		Answered: true,
		Steps:    res.Steps,
	}
}
