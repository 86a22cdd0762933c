package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStream_DecodesReasoningField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"role":"assistant","content":"","reasoning":"carry the one"}}]}`,
			`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"content":"4","reasoning":null},"finish_reason":"stop"}]}`,
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

	var thinking []string
	resp, err := adapter.ChatStream(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "2+2?"}},
	}, func(c entity.StreamChunk) {
		if c.Kind == entity.ChunkThinking {
			thinking = append(thinking, c.Text)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"carry the one"}, thinking)
	assert.Equal(t, "4", resp.Message.Content)
	require.NotEmpty(t, resp.Message.ContentBlocks)
	assert.Equal(t, entity.ContentTypeThinking, resp.Message.ContentBlocks[0].Type)
	assert.Equal(t, "carry the one", resp.Message.ContentBlocks[0].Thinking)
}

func TestRewriteReasoning(t *testing.T) {
	decodeDelta := func(t *testing.T, line []byte) map[string]any {
		t.Helper()
		var event struct {
			Choices []struct {
				Delta map[string]any `json:"delta"`
			} `json:"choices"`
		}
		require.NoError(t, json.Unmarshal(line[len(dataPrefix):], &event))
		require.Len(t, event.Choices, 1)
		return event.Choices[0].Delta
	}

	t.Run("copies reasoning", func(t *testing.T) {
		out := rewriteReasoning([]byte(`data: {"choices":[{"delta":{"reasoning":"hm"}}]}` + "\n"))
		assert.Equal(t, "hm", decodeDelta(t, out)["reasoning_content"])
	})

	t.Run("keeps existing reasoning_content", func(t *testing.T) {
		out := rewriteReasoning([]byte(`data: {"choices":[{"delta":{"reasoning":"a","reasoning_content":"b"}}]}` + "\n"))
		assert.Equal(t, "b", decodeDelta(t, out)["reasoning_content"])
	})

	for _, line := range []string{
		"data: [DONE]\n",
		"\n",
		": keep-alive\n",
		`data: {"choices":[{"delta":{"content":"x"}}]}` + "\n",
		`data: {"choices":[{"delta":{"reasoning":null}}]}` + "\n",
		`data: {"reasoning": broken` + "\n",
	} {
		assert.Equal(t, line, string(rewriteReasoning([]byte(line))), "line %q", line)
	}
}
