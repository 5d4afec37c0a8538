package providers

import (
	"context"

	"github.com/nimbuslab/nimbus/internal/pkg/agents/tools"
)

// ToolCall is a model-emitted request to run a named tool. Immutable once
// received.
type ToolCall struct {
	ID           string `json:"id"`
	FunctionName string `json:"function_name"`
	Args         string `json:"args"`
}

// ChatMessage is one entry of the conversation. ToolCall is set on
// tool-result messages; ToolCalls is set on assistant messages that request
// tool executions.
type ChatMessage struct {
	Content   *string    `json:"content"`
	Role      string     `json:"role"`
	ToolCall  *ToolCall  `json:"tool_call,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Usage tallies token counts across model queries.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

func (u *Usage) Accumulate(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

type ChatResponse struct {
	Content   *string    `json:"content"`
	Role      string     `json:"role"`
	ToolCalls []ToolCall `json:"tool_calls"`
	Usage     Usage      `json:"usage"`
}

// ChatProvider is the language model collaborator: given a conversation and
// a tool catalog it produces either a final message or tool call requests.
// Implementations must not retry internally; a failed query fails the whole
// invocation.
type ChatProvider interface {
	Chat(ctx context.Context, messages []ChatMessage, toolDefs []tools.Definition) (ChatResponse, error)
}
