package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/infrastructure/logger"
)

func TestSubmitFinalAnswer_ReturnsAnswerForQuestion(t *testing.T) {
	tool := NewSubmitFinalAnswerTool(logger.NewNop())

	out, answer, err := tool.ExecuteWithState(context.Background(), `{"answer": "Paris"}`, entity.Question{TaskID: "task-7"})
	require.NoError(t, err)
	assert.Equal(t, SubmittedMessage, out)
	require.NotNil(t, answer)
	assert.Equal(t, entity.FinalAnswer{TaskID: "task-7", AgentAnswer: "Paris"}, *answer)
}

func TestSubmitFinalAnswer_AcceptsNumbers(t *testing.T) {
	tool := NewSubmitFinalAnswerTool(logger.NewNop())

	_, answer, err := tool.ExecuteWithState(context.Background(), `{"answer": 42}`, entity.Question{TaskID: "t"})
	require.NoError(t, err)
	assert.Equal(t, "42", answer.AgentAnswer)
}

func TestSubmitFinalAnswer_StatelessExecuteFails(t *testing.T) {
	_, err := NewSubmitFinalAnswerTool(logger.NewNop()).Execute(context.Background(), `{"answer": "x"}`)
	assert.Error(t, err)
}

func TestDefaultTools_Order(t *testing.T) {
	var names []string
	for _, tl := range DefaultTools(&fakeSearch{}, logger.NewNop()) {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"add", "subtract", "multiply", "divide", "tavily_search", "submit_final_answer"}, names)
}
