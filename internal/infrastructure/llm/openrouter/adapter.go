package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

type OpenRouterAdapter struct {
	client          *openai.Client
	model           string
	maxTokens       int
	reasoningEffort string
	logger          output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxTokens caps the completion length; zero leaves it to the provider.
	MaxTokens int
	// ReasoningEffort enables provider-side thinking ("low", "medium", "high").
	ReasoningEffort string
	Logger          output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var requestData map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &requestData)
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"body", requestData,
	)

	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		t.logger.Debug("HTTP Response",
			"status", resp.Status,
			"statusCode", resp.StatusCode,
		)
	}

	return resp, err
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	var transport http.RoundTripper = &reasoningTransport{base: http.DefaultTransport}
	if cfg.Logger != nil {
		transport = &loggingTransport{base: transport, logger: cfg.Logger}
	}
	config.HTTPClient = &http.Client{Transport: transport}

	return &OpenRouterAdapter{
		client:          openai.NewClientWithConfig(config),
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		reasoningEffort: cfg.ReasoningEffort,
		logger:          cfg.Logger,
	}
}

func (a *OpenRouterAdapter) ChatStream(ctx context.Context, req output.ChatRequest, onChunk output.ChunkHandler) (*output.ChatResponse, error) {
	messages := convertMessages(req.Messages)
	tools := convertTools(req.Tools)

	if a.logger != nil {
		totalChars := 0
		for _, msg := range messages {
			totalChars += len(msg.Content)
		}
		a.logger.Debug("Creating chat completion stream",
			"model", a.model,
			"messagesCount", len(messages),
			"toolsCount", len(tools),
			"temperature", req.Temperature,
			"totalChars", totalChars)
	}

	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:           a.model,
		Messages:        messages,
		Tools:           tools,
		ToolChoice:      "auto",
		Temperature:     req.Temperature,
		MaxTokens:       a.maxTokens,
		ReasoningEffort: a.reasoningEffort,
		Stream:          true,
	})
	if err != nil {
		if a.logger != nil {
			a.logger.Error("Failed to create stream", "error", err)
		}
		return nil, fmt.Errorf("chat stream failed: %w", err)
	}
	defer stream.Close()

	acc := newAccumulator(onChunk)
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled: %w", ctx.Err())
		default:
		}

		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if a.logger != nil {
				a.logger.Error("Stream recv error", "error", err, "chunks", acc.chunks, "errorType", fmt.Sprintf("%T", err))
			}
			return nil, fmt.Errorf("stream recv error: %w", err)
		}
		acc.add(chunk)
	}

	resp := acc.response()
	if a.logger != nil {
		a.logger.Debug("Stream completed",
			"chunks", acc.chunks,
			"stopReason", resp.StopReason,
			"contentBlocksCount", len(resp.Message.ContentBlocks),
			"toolCallsCount", len(resp.Message.ToolCalls))
	}
	return resp, nil
}

// accumulator folds stream deltas into one assistant message and forwards
// each fragment to the observer as it arrives.
type accumulator struct {
	onChunk    output.ChunkHandler
	thinking   strings.Builder
	text       strings.Builder
	toolCalls  map[int]*entity.ToolCall
	stopReason string
	chunks     int
}

func newAccumulator(onChunk output.ChunkHandler) *accumulator {
	return &accumulator{
		onChunk:   onChunk,
		toolCalls: make(map[int]*entity.ToolCall),
	}
}

func (a *accumulator) emit(c entity.StreamChunk) {
	if a.onChunk != nil {
		a.onChunk(c)
	}
}

func (a *accumulator) add(chunk openai.ChatCompletionStreamResponse) {
	a.chunks++
	if len(chunk.Choices) == 0 {
		return
	}
	choice := chunk.Choices[0]
	delta := choice.Delta

	if delta.ReasoningContent != "" {
		a.thinking.WriteString(delta.ReasoningContent)
		a.emit(entity.StreamChunk{Kind: entity.ChunkThinking, Text: delta.ReasoningContent})
	}

	if delta.Content != "" {
		a.text.WriteString(delta.Content)
		a.emit(entity.StreamChunk{Kind: entity.ChunkText, Text: delta.Content})
	}

	for _, tc := range delta.ToolCalls {
		idx := len(a.toolCalls)
		if tc.Index != nil {
			idx = *tc.Index
		}
		existing, ok := a.toolCalls[idx]
		if !ok {
			existing = &entity.ToolCall{}
			a.toolCalls[idx] = existing
		}
		if tc.ID != "" {
			existing.ID = tc.ID
		}
		if tc.Function.Name != "" && existing.Name == "" {
			existing.Name = tc.Function.Name
			a.emit(entity.StreamChunk{Kind: entity.ChunkToolUse, ToolName: tc.Function.Name})
		}
		if tc.Function.Arguments != "" {
			existing.Arguments += tc.Function.Arguments
			a.emit(entity.StreamChunk{Kind: entity.ChunkToolArgs, Text: tc.Function.Arguments, ToolName: existing.Name})
		}
	}

	if choice.FinishReason != "" {
		a.stopReason = string(choice.FinishReason)
		a.emit(entity.StreamChunk{Kind: entity.ChunkStop, StopReason: a.stopReason})
	}
}

func (a *accumulator) response() *output.ChatResponse {
	msg := entity.Message{Role: entity.RoleAssistant}

	if a.thinking.Len() > 0 {
		msg.ContentBlocks = append(msg.ContentBlocks, entity.ContentBlock{
			Type:     entity.ContentTypeThinking,
			Thinking: a.thinking.String(),
		})
	}
	if a.text.Len() > 0 {
		msg.Content = a.text.String()
		msg.ContentBlocks = append(msg.ContentBlocks, entity.ContentBlock{
			Type: entity.ContentTypeText,
			Text: msg.Content,
		})
	}

	indices := make([]int, 0, len(a.toolCalls))
	for idx := range a.toolCalls {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		tc := *a.toolCalls[idx]
		msg.ToolCalls = append(msg.ToolCalls, tc)
		msg.ContentBlocks = append(msg.ContentBlocks, entity.ContentBlock{
			Type:    entity.ContentTypeToolUse,
			ToolUse: &tc,
		})
	}

	return &output.ChatResponse{Message: msg, StopReason: a.stopReason}
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}

		// Prior thinking is replayed inline so the model keeps its own plan.
		if len(msg.ContentBlocks) > 0 {
			var fullContent strings.Builder
			for _, block := range msg.ContentBlocks {
				switch {
				case block.Type == entity.ContentTypeThinking && block.Thinking != "":
					fullContent.WriteString("<thinking>\n" + block.Thinking + "\n</thinking>\n")
				case block.Type == entity.ContentTypeText && block.Text != "":
					fullContent.WriteString(block.Text)
				}
			}
			if fullContent.Len() > 0 {
				oaiMsg.Content = fullContent.String()
			}
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}
