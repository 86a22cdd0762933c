package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type ContentType string

const (
	ContentTypeThinking ContentType = "thinking"
	ContentTypeText     ContentType = "text"
	ContentTypeToolUse  ContentType = "tool_use"
)

type ContentBlock struct {
	Type     ContentType
	Text     string
	Thinking string
	ToolUse  *ToolCall
}

type Message struct {
	Role          MessageRole
	Content       string
	ContentBlocks []ContentBlock
	ToolCalls     []ToolCall
	ToolCallID    string
	Name          string
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolResult answers exactly one ToolCall.
type ToolResult struct {
	CallID string
	Name   string
	Output string
}

// Message converts the result into the tool-role message appended to the history.
func (r ToolResult) Message() Message {
	return Message{
		Role:       RoleTool,
		ToolCallID: r.CallID,
		Name:       r.Name,
		Content:    r.Output,
	}
}

type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}
