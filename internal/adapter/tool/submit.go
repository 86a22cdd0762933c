package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

const SubmittedMessage = "You have successfully submitted your final answer. There is nothing left to be done."

var _ output.StatefulToolPort = (*SubmitFinalAnswerTool)(nil)

type SubmitFinalAnswerTool struct {
	logger output.LoggerPort
}

func NewSubmitFinalAnswerTool(logger output.LoggerPort) *SubmitFinalAnswerTool {
	return &SubmitFinalAnswerTool{logger: logger}
}

func (t *SubmitFinalAnswerTool) Name() string { return "submit_final_answer" }
func (t *SubmitFinalAnswerTool) Description() string {
	return "This function should be called to submit your final answer only once you have determined it. " +
		"YOUR FINAL ANSWER should be a number OR as few words as possible OR a comma separated list of numbers and/or strings. " +
		"If you are asked for a number, don't use comma to write your number neither use units such as $ or percent sign unless specified otherwise. " +
		"If you are asked for a string, don't use articles, neither abbreviations (e.g. for cities), and write the digits in plain text unless specified otherwise. " +
		"If you are asked for a comma separated list, apply the above rules depending of whether the element to be put in the list is a number or a string."
}
func (t *SubmitFinalAnswerTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"answer": map[string]interface{}{
				"type":        "string",
				"description": "The final answer",
			},
		},
		"required": []string{"answer"},
	}
}

// Execute without a question cannot attribute the answer to a task.
func (t *SubmitFinalAnswerTool) Execute(ctx context.Context, args string) (string, error) {
	return "", fmt.Errorf("%s requires conversation state", t.Name())
}

func (t *SubmitFinalAnswerTool) ExecuteWithState(ctx context.Context, args string, question entity.Question) (string, *entity.FinalAnswer, error) {
	var input struct {
		Answer any `json:"answer"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", nil, fmt.Errorf("invalid input format: %w", err)
	}

	answer := answerText(input.Answer)
	t.logger.Info("Submitting final answer", "task_id", question.TaskID, "answer", answer)

	return SubmittedMessage, &entity.FinalAnswer{
		TaskID:      question.TaskID,
		AgentAnswer: answer,
	}, nil
}

// answerText accepts numbers too, models occasionally send {"answer": 42}.
func answerText(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return FormatNumber(a)
	default:
		return fmt.Sprint(a)
	}
}
