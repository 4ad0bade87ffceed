package llm

import (
	"context"
	"errors"
	"strings"
)

// reply is what a backend returns before the shared checks.
type reply struct {
	text      string
	usage     Usage
	model     string
	truncated bool
}

// backend sends one request to a hosted model and maps its errors.
type backend interface {
	send(ctx context.Context, model string, req Request) (*reply, error)
}

// client is the Provider for every hosted backend. It applies the checks
// that do not depend on the vendor: truncation, empty answers and schema
// validation.
type client struct {
	backend backend
	model   string
}

func (c *client) ModelID() string {
	return c.model
}

func (c *client) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)

	r, err := c.backend.send(ctx, c.model, req)
	if err != nil {
		return nil, err
	}
	if r.truncated {
		return nil, &ErrMaxTokensExceeded{Purpose: purpose, MaxTokens: req.MaxTokens, Content: []byte(r.text)}
	}
	text := strings.TrimSpace(r.text)
	if text == "" {
		return nil, &ErrInvalidResponse{Purpose: purpose, Err: errors.New("empty answer")}
	}
	if req.Schema != nil {
		text = stripCodeFence(text)
		if err := validateResponse(purpose, req.Schema, []byte(text)); err != nil {
			return nil, err
		}
	}

	model := r.model
	if model == "" {
		model = c.model
	}
	usage := r.usage
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: []byte(text), Usage: usage, Model: model}, nil
}

// stripCodeFence removes a ```json fence some models put around structured
// output.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
