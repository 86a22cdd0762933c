package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestAccumulator_MergesToolCallsByIndex(t *testing.T) {
	var chunks []entity.StreamChunk
	acc := newAccumulator(func(c entity.StreamChunk) { chunks = append(chunks, c) })

	acc.add(openai.ChatCompletionStreamResponse{Choices: []openai.ChatCompletionStreamChoice{{
		Delta: openai.ChatCompletionStreamChoiceDelta{ReasoningContent: "plan first"},
	}}})
	acc.add(openai.ChatCompletionStreamResponse{Choices: []openai.ChatCompletionStreamChoice{{
		Delta: openai.ChatCompletionStreamChoiceDelta{ToolCalls: []openai.ToolCall{
			{Index: intPtr(1), ID: "call_b", Function: openai.FunctionCall{Name: "multiply"}},
			{Index: intPtr(0), ID: "call_a", Function: openai.FunctionCall{Name: "add", Arguments: `{"x":1,`}},
		}},
	}}})
	acc.add(openai.ChatCompletionStreamResponse{Choices: []openai.ChatCompletionStreamChoice{{
		Delta: openai.ChatCompletionStreamChoiceDelta{ToolCalls: []openai.ToolCall{
			{Index: intPtr(0), Function: openai.FunctionCall{Arguments: `"y":2}`}},
			{Index: intPtr(1), Function: openai.FunctionCall{Arguments: `{"x":3,"y":4}`}},
		}},
		FinishReason: openai.FinishReasonToolCalls,
	}}})

	resp := acc.response()

	assert.Equal(t, "tool_calls", resp.StopReason)
	require.Len(t, resp.Message.ToolCalls, 2)
	assert.Equal(t, entity.ToolCall{ID: "call_a", Name: "add", Arguments: `{"x":1,"y":2}`}, resp.Message.ToolCalls[0])
	assert.Equal(t, entity.ToolCall{ID: "call_b", Name: "multiply", Arguments: `{"x":3,"y":4}`}, resp.Message.ToolCalls[1])

	require.Len(t, resp.Message.ContentBlocks, 3)
	assert.Equal(t, entity.ContentTypeThinking, resp.Message.ContentBlocks[0].Type)
	assert.Equal(t, "plan first", resp.Message.ContentBlocks[0].Thinking)

	kinds := make([]entity.ChunkKind, 0, len(chunks))
	for _, c := range chunks {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []entity.ChunkKind{
		entity.ChunkThinking,
		entity.ChunkToolUse,
		entity.ChunkToolUse, entity.ChunkToolArgs,
		entity.ChunkToolArgs, entity.ChunkToolArgs,
		entity.ChunkStop,
	}, kinds)
}

func TestAccumulator_TextOnly(t *testing.T) {
	acc := newAccumulator(nil)
	acc.add(openai.ChatCompletionStreamResponse{})
	acc.add(openai.ChatCompletionStreamResponse{Choices: []openai.ChatCompletionStreamChoice{{
		Delta: openai.ChatCompletionStreamChoiceDelta{Content: "Hello, "},
	}}})
	acc.add(openai.ChatCompletionStreamResponse{Choices: []openai.ChatCompletionStreamChoice{{
		Delta:        openai.ChatCompletionStreamChoiceDelta{Content: "world!"},
		FinishReason: openai.FinishReasonStop,
	}}})

	resp := acc.response()

	assert.Equal(t, entity.RoleAssistant, resp.Message.Role)
	assert.Equal(t, "Hello, world!", resp.Message.Content)
	assert.Empty(t, resp.Message.ToolCalls)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, 3, acc.chunks)
}

func TestChatStream_OverSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"role":"assistant","content":"4"}}]}`,
			`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"submit_final_answer","arguments":"{\"answer\":\"4\"}"}}]},"finish_reason":"tool_calls"}]}`,
		}
		for _, e := range events {
			fmt.Fprintf(w, "data: %s\n\n", e)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	cfg := DefaultConfig("test-key", "m")
	cfg.BaseURL = srv.URL
	adapter := NewOpenRouterAdapter(cfg)

	var texts []string
	resp, err := adapter.ChatStream(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "2+2?"}},
	}, func(c entity.StreamChunk) {
		if c.Kind == entity.ChunkText {
			texts = append(texts, c.Text)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"4"}, texts)
	assert.Equal(t, "4", resp.Message.Content)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "submit_final_answer", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, "tool_calls", resp.StopReason)
}

func TestConvertMessages_WithContentBlocks(t *testing.T) {
	messages := []entity.Message{
		{
			Role:    entity.RoleUser,
			Content: "Hello",
		},
		{
			Role:    entity.RoleAssistant,
			Content: "Hi there",
			ContentBlocks: []entity.ContentBlock{
				{Type: entity.ContentTypeThinking, Thinking: "Let me think about this..."},
				{Type: entity.ContentTypeText, Text: "Hi there"},
			},
		},
		entity.ToolResult{CallID: "call_1", Name: "add", Output: "3"}.Message(),
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	assert.Equal(t, "Hello", result[0].Content)
	assert.Equal(t, "<thinking>\nLet me think about this...\n</thinking>\nHi there", result[1].Content)
	assert.Equal(t, "tool", result[2].Role)
	assert.Equal(t, "call_1", result[2].ToolCallID)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]entity.ToolDefinition{{
		Name:        "add",
		Description: "Add two numbers",
		Parameters:  map[string]interface{}{"type": "object"},
	}})

	require.Len(t, tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, tools[0].Type)
	assert.Equal(t, "add", tools[0].Function.Name)
}
