// Package llm talks to the hosted language models that write reports,
// suggestions and chat replies.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one model response.
type Provider interface {
	// Generate sends req and returns the model's answer. With req.Schema set
	// the answer is JSON that has been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model.
	ModelID() string
}

// Request is a prompt for the model.
type Request struct {
	System string

	// Messages alternate between user and assistant, ending with the user.
	// Reports send one message; chat sends the whole conversation.
	Messages []Message

	// Schema requests structured JSON output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "quick-suggestions".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model answer.
type Response struct {
	// Content is the validated JSON for schema requests, or the text as
	// returned for free-text requests.
	Content json.RawMessage
	Usage   Usage
	// Model is the model that actually served the request.
	Model string
}

// Usage counts the tokens of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns Content as plain text. A JSON string is unquoted.
func (r *Response) Text() string {
	raw := strings.TrimSpace(string(r.Content))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return raw
}
