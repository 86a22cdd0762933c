package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
	"gaia-agent/internal/infrastructure/llm"

	"github.com/tmc/langchaingo/llms"
	lcanthropic "github.com/tmc/langchaingo/llms/anthropic"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultModel = "claude-3-7-sonnet-latest"

var statusPattern = regexp.MustCompile(`status code: (\d{3})`)

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Logger    output.LoggerPort
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		Model:     DefaultModel,
		MaxTokens: 4096,
	}
}

// Adapter talks to Anthropic through langchaingo. Text deltas are streamed to
// the observer; tool calls are reported once the turn completes.
type Adapter struct {
	llm       *lcanthropic.LLM
	maxTokens int
	logger    output.LoggerPort
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []lcanthropic.Option{
		lcanthropic.WithToken(cfg.APIKey),
		lcanthropic.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcanthropic.WithBaseURL(cfg.BaseURL))
	}
	client, err := lcanthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return &Adapter{llm: client, maxTokens: cfg.MaxTokens, logger: cfg.Logger}, nil
}

func (a *Adapter) ChatStream(ctx context.Context, req output.ChatRequest, onChunk output.ChunkHandler) (*output.ChatResponse, error) {
	emit := func(c entity.StreamChunk) {
		if onChunk != nil {
			onChunk(c)
		}
	}

	opts := []llms.CallOption{
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) > 0 {
				emit(entity.StreamChunk{Kind: entity.ChunkText, Text: string(chunk)})
			}
			return nil
		}),
	}
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(convertTools(req.Tools)))
	}
	if a.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.maxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(float64(req.Temperature)))
	}

	messages := convertMessages(req.Messages)
	if a.logger != nil {
		a.logger.Debug("Generating content", "messagesCount", len(messages), "toolsCount", len(req.Tools))
	}

	resp, err := a.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("anthropic generate failed: %w", withStatus(err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	out := fromChoices(resp.Choices)
	for _, tc := range out.Message.ToolCalls {
		emit(entity.StreamChunk{Kind: entity.ChunkToolUse, ToolName: tc.Name})
		emit(entity.StreamChunk{Kind: entity.ChunkToolArgs, ToolName: tc.Name, Text: tc.Arguments})
	}
	emit(entity.StreamChunk{Kind: entity.ChunkStop, StopReason: out.StopReason})

	return out, nil
}

// fromChoices merges the per-block choices langchaingo returns for a single
// Anthropic message.
func fromChoices(choices []*llms.ContentChoice) *output.ChatResponse {
	msg := entity.Message{Role: entity.RoleAssistant}
	var text strings.Builder
	var stop string

	for _, c := range choices {
		if c == nil {
			continue
		}
		if c.StopReason != "" {
			stop = c.StopReason
		}
		if c.Content != "" {
			text.WriteString(c.Content)
		}
		for _, tc := range c.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			msg.ToolCalls = append(msg.ToolCalls, entity.ToolCall{
				ID:        tc.ID,
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			})
		}
	}

	if text.Len() > 0 {
		msg.Content = text.String()
		msg.ContentBlocks = append(msg.ContentBlocks, entity.ContentBlock{Type: entity.ContentTypeText, Text: msg.Content})
	}
	for i := range msg.ToolCalls {
		tc := msg.ToolCalls[i]
		msg.ContentBlocks = append(msg.ContentBlocks, entity.ContentBlock{Type: entity.ContentTypeToolUse, ToolUse: &tc})
	}

	return &output.ChatResponse{Message: msg, StopReason: stop}
}

// withStatus recovers the HTTP status langchaingo folds into its error text.
func withStatus(err error) error {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	code, _ := strconv.Atoi(m[1])
	return &llm.StatusError{StatusCode: code, Err: err}
}

// convertMessages emits one MessageContent per text block, tool call and tool
// result because langchaingo only reads the first part of assistant and tool
// messages. Anthropic merges consecutive turns of the same role, so a batch
// still arrives as one assistant turn followed by one user turn.
func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleSystem:
			result = append(result, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case entity.RoleUser:
			result = append(result, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case entity.RoleAssistant:
			// An empty turn has nothing to replay and langchaingo cannot send it.
			if msg.Content != "" {
				result = append(result, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				result = append(result, llms.MessageContent{
					Role: llms.ChatMessageTypeAI,
					Parts: []llms.ContentPart{llms.ToolCall{
						ID:   tc.ID,
						Type: "function",
						FunctionCall: &llms.FunctionCall{
							Name:      tc.Name,
							Arguments: objectArguments(tc.Arguments),
						},
					}},
				})
			}
		case entity.RoleTool:
			result = append(result, llms.MessageContent{
				Role:  llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{ToolCallID: msg.ToolCallID, Name: msg.Name, Content: msg.Content}},
			})
		}
	}
	return result
}

// objectArguments returns args when it is a JSON object and "{}" otherwise;
// tool_use input must be an object and langchaingo rejects anything else.
func objectArguments(args string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(args), &obj); err != nil || obj == nil {
		return "{}"
	}
	return args
}

func convertTools(tools []entity.ToolDefinition) []llms.Tool {
	result := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}
