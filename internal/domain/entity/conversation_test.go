package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationState_SetFinalAnswerOnce(t *testing.T) {
	s := NewConversationState(Question{TaskID: "t1"}, Message{Role: RoleUser, Content: "q"})

	assert.False(t, s.Answered())
	assert.True(t, s.SetFinalAnswer(FinalAnswer{TaskID: "t1", AgentAnswer: "42"}))
	assert.False(t, s.SetFinalAnswer(FinalAnswer{TaskID: "t1", AgentAnswer: "43"}))
	assert.True(t, s.Answered())
	assert.Equal(t, "42", s.FinalAnswer.AgentAnswer)
}

func TestConversationState_AppendKeepsOrder(t *testing.T) {
	s := NewConversationState(Question{})
	s.Append(Message{Content: "a"}, Message{Content: "b"})
	s.Append(Message{Content: "c"})

	var got []string
	for _, m := range s.Messages {
		got = append(got, m.Content)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRunSummary_CountsEachCorrectRecordOnce(t *testing.T) {
	var s RunSummary
	s.Add(AnswerRecord{IsCorrect: true}, true)
	s.Add(AnswerRecord{IsCorrect: false, Error: "boom"}, false)
	s.Add(AnswerRecord{IsCorrect: true}, true)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 2, s.Answered)
	assert.Equal(t, 1, s.Errored)
	assert.InDelta(t, 2.0/3.0, s.Accuracy, 1e-9)
}

func TestStreamChunk_Known(t *testing.T) {
	assert.True(t, StreamChunk{Kind: ChunkText}.Known())
	assert.False(t, StreamChunk{Kind: "citation"}.Known())
}
