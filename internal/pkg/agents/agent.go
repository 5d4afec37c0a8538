package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nimbuslab/nimbus/internal/pkg/agents/providers"
	"github.com/nimbuslab/nimbus/internal/pkg/agents/tools"
)

// DefaultMaxTurns bounds the model-query/tool-dispatch loop so a misbehaving
// model or tool cannot keep the invocation alive forever.
const DefaultMaxTurns = 8

const degradedResponse = "I wasn't able to complete your request right now. Please try asking again in a moment."

// Reply is the terminal answer of one invocation together with the token
// usage accumulated across every model query it made.
type Reply struct {
	Content string          `json:"content"`
	Usage   providers.Usage `json:"usage"`
}

// WeatherAgent drives the conversation between the caller, the language
// model and the tool registry until a final answer is reached. It holds no
// per-request state and is safe for concurrent invocations.
type WeatherAgent struct {
	chatProvider providers.ChatProvider
	registry     *tools.Registry
	maxTurns     int
}

func NewWeatherAgent(chatProvider providers.ChatProvider, registry *tools.Registry, maxTurns int) *WeatherAgent {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &WeatherAgent{
		chatProvider: chatProvider,
		registry:     registry,
		maxTurns:     maxTurns,
	}
}

// Invoke answers a single user message. Tool failures degrade into
// conversational answers; only a model query failure is returned as an
// error.
func (a *WeatherAgent) Invoke(ctx context.Context, userMessage string) (*Reply, error) {
	systemPrompt := SystemPrompt
	messages := []providers.ChatMessage{
		{Role: "system", Content: &systemPrompt},
		{Role: "user", Content: &userMessage},
	}

	catalog := a.registry.Definitions()
	var usage providers.Usage

	for turn := 1; turn <= a.maxTurns; turn++ {
		resp, err := a.chatProvider.Chat(ctx, messages, catalog)
		if err != nil {
			return nil, fmt.Errorf("model query failed: %w", err)
		}
		usage.Accumulate(resp.Usage)

		if len(resp.ToolCalls) == 0 {
			content := ""
			if resp.Content != nil {
				content = *resp.Content
			}
			slog.Info("Agent final response", "turns", turn, "total_tokens", usage.TotalTokens)
			return &Reply{Content: content, Usage: usage}, nil
		}

		// Rebuild the conversation from scratch each turn. The system
		// message and the original user message are re-asserted so tool
		// context injections never crowd out the grounding instructions.
		messages = []providers.ChatMessage{
			{Role: "system", Content: &systemPrompt},
			{Role: "user", Content: &userMessage},
			{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls},
		}

		for _, toolCall := range resp.ToolCalls {
			toolCall := toolCall
			result := a.executeToolCall(ctx, toolCall)
			guidance := GetToolPrompt(toolCall.FunctionName)
			messages = append(messages,
				providers.ChatMessage{Role: "system", Content: &guidance},
				providers.ChatMessage{Role: "tool", Content: &result, ToolCall: &toolCall},
			)
		}
	}

	slog.Warn("Agent exceeded turn budget", "max_turns", a.maxTurns, "total_tokens", usage.TotalTokens)
	return &Reply{Content: degradedResponse, Usage: usage}, nil
}

// executeToolCall runs one requested tool and serializes its result. It
// never fails: unknown tools, bad arguments and tool errors all come back as
// result content for the model to react to.
func (a *WeatherAgent) executeToolCall(ctx context.Context, toolCall providers.ToolCall) string {
	slog.Info("Agent tool call", "tool", toolCall.FunctionName, "call_id", toolCall.ID, "args", toolCall.Args)

	tool, ok := a.registry.Get(toolCall.FunctionName)
	if !ok {
		slog.Warn("Agent requested unknown tool", "tool", toolCall.FunctionName)
		return fmt.Sprintf("Error: tool %q is not recognized", toolCall.FunctionName)
	}

	args := map[string]any{}
	if toolCall.Args != "" {
		if err := json.Unmarshal([]byte(toolCall.Args), &args); err != nil {
			slog.Error("Agent tool arguments unparsable", "tool", toolCall.FunctionName, "error", err)
			return fmt.Sprintf("Error: invalid arguments for tool %q: %v", toolCall.FunctionName, err)
		}
	}

	result := tool.Execute(ctx, args)
	serialized, err := json.Marshal(result)
	if err != nil {
		slog.Error("Agent tool result unserializable", "tool", toolCall.FunctionName, "error", err)
		return fmt.Sprintf("Error: could not serialize result of tool %q: %v", toolCall.FunctionName, err)
	}

	slog.Info("Agent tool result", "tool", toolCall.FunctionName, "call_id", toolCall.ID, "result", string(serialized))
	return string(serialized)
}
