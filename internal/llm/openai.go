package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiBackend serves OpenAI and OpenAI-compatible APIs such as
// OpenRouter.
type openaiBackend struct {
	chat *openai.Client
}

func newOpenAIBackend(pc ProviderConfig) *openaiBackend {
	cc := openai.DefaultConfig(pc.APIKey)
	if pc.BaseURL != "" {
		cc.BaseURL = pc.BaseURL
	}
	return &openaiBackend{chat: openai.NewClientWithConfig(cc)}
}

func (b *openaiBackend) send(ctx context.Context, model string, req Request) (*reply, error) {
	creq := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		Messages:            make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1),
	}
	if req.System != "" {
		creq.Messages = append(creq.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		creq.Messages = append(creq.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %q: %w", req.Schema.Name, err)
		}
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := b.chat.CreateChatCompletion(ctx, creq)
	if err != nil {
		var (
			apiErr *openai.APIError
			reqErr *openai.RequestError
		)
		switch {
		case errors.As(err, &apiErr):
			return nil, classifyStatus(ctx, apiErr.HTTPStatusCode, err)
		case errors.As(err, &reqErr):
			return nil, classifyStatus(ctx, reqErr.HTTPStatusCode, err)
		}
		return nil, unavailable(ctx, err)
	}

	r := &reply{
		model: resp.Model,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		r.text = resp.Choices[0].Message.Content
		r.truncated = resp.Choices[0].FinishReason == openai.FinishReasonLength
	}
	return r, nil
}
