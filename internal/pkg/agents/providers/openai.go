package providers

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go"

	"github.com/nimbuslab/nimbus/internal/pkg/agents/tools"
	"github.com/nimbuslab/nimbus/internal/pkg/utils"
)

type OpenAIChatProvider struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIChatProvider(client *openai.Client, model string) *OpenAIChatProvider {
	return &OpenAIChatProvider{
		Client: client,
		Model:  utils.GetOrDefault(model, openai.ChatModelGPT4o),
	}
}

func (p *OpenAIChatProvider) Chat(ctx context.Context, messages []ChatMessage, toolDefs []tools.Definition) (ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F(p.convertFromChatMessages(messages)),
		Tools:    openai.F(p.convertToolDefinitions(toolDefs)),
		Model:    openai.F(p.Model),
	}
	p.debugStruct("Agent chat params messages", params.Messages)

	chatCompletion, err := p.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("Agent chat error", "error", err)
		return ChatResponse{}, err
	}
	p.debugStruct("Agent chat completion", chatCompletion)

	return p.convertToChatResponse(chatCompletion), nil
}

func (p *OpenAIChatProvider) convertFromChatMessages(messages []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	convertedMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		convertedMessages[i] = p.convertFromChatMessage(msg)
	}
	return convertedMessages
}

func (p *OpenAIChatProvider) convertFromChatMessage(msg ChatMessage) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case "system":
		return openai.SystemMessage(*msg.Content)
	case "user":
		return openai.UserMessage(*msg.Content)
	case "assistant":
		if len(msg.ToolCalls) == 0 {
			return openai.AssistantMessage(*msg.Content)
		}
		assistantMsg := openai.ChatCompletionAssistantMessageParam{
			Role:      openai.F(openai.ChatCompletionAssistantMessageParamRoleAssistant),
			ToolCalls: openai.F(p.convertToolCalls(msg.ToolCalls)),
		}
		if msg.Content != nil && *msg.Content != "" {
			assistantMsg.Content = openai.F([]openai.ChatCompletionAssistantMessageParamContentUnion{openai.TextPart(*msg.Content)})
		}
		return assistantMsg
	case "tool":
		return openai.ToolMessage(msg.ToolCall.ID, *msg.Content)
	}
	return nil
}

func (p *OpenAIChatProvider) convertToolCalls(toolCalls []ToolCall) []openai.ChatCompletionMessageToolCallParam {
	converted := make([]openai.ChatCompletionMessageToolCallParam, len(toolCalls))
	for i, toolCall := range toolCalls {
		converted[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   openai.F(toolCall.ID),
			Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
			Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      openai.F(toolCall.FunctionName),
				Arguments: openai.F(toolCall.Args),
			}),
		}
	}
	return converted
}

func (p *OpenAIChatProvider) convertToolDefinitions(toolDefs []tools.Definition) []openai.ChatCompletionToolParam {
	converted := make([]openai.ChatCompletionToolParam, len(toolDefs))
	for i, def := range toolDefs {
		properties := make(map[string]interface{}, len(def.Parameters.Properties))
		for name, property := range def.Parameters.Properties {
			properties[name] = property
		}
		converted[i] = openai.ChatCompletionToolParam{
			Type: openai.F(openai.ChatCompletionToolTypeFunction),
			Function: openai.F(openai.FunctionDefinitionParam{
				Name:        openai.String(def.Name),
				Description: openai.String(def.Description),
				Parameters: openai.F(openai.FunctionParameters{
					"type":       def.Parameters.Type,
					"properties": properties,
					"required":   def.Parameters.Required,
				}),
			}),
		}
	}
	return converted
}

func (p *OpenAIChatProvider) convertToChatResponse(chatCompletion *openai.ChatCompletion) ChatResponse {
	respMessage := chatCompletion.Choices[0].Message
	resp := ChatResponse{
		Content: &respMessage.Content,
		Role:    "assistant",
		Usage: Usage{
			InputTokens:  chatCompletion.Usage.PromptTokens,
			OutputTokens: chatCompletion.Usage.CompletionTokens,
			TotalTokens:  chatCompletion.Usage.TotalTokens,
		},
	}
	if respMessage.ToolCalls != nil {
		resp.ToolCalls = make([]ToolCall, len(respMessage.ToolCalls))
		for i, toolCall := range respMessage.ToolCalls {
			resp.ToolCalls[i] = ToolCall{
				ID:           toolCall.ID,
				FunctionName: toolCall.Function.Name,
				Args:         toolCall.Function.Arguments,
			}
		}
	}
	return resp
}

func (p *OpenAIChatProvider) debugStruct(title string, v any) {
	slog.Debug(title)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		utils.PrintStruct(v)
	}
}
