package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type geminiBackend struct {
	models *genai.Models
}

func newGeminiBackend(ctx context.Context, pc ProviderConfig) (*geminiBackend, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  pc.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiBackend{models: c.Models}, nil
}

func (b *geminiBackend) send(ctx context.Context, model string, req Request) (*reply, error) {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	res, err := b.models.GenerateContent(ctx, model, contents, gc)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(ctx, apiErr.Code, err)
		}
		return nil, unavailable(ctx, err)
	}

	r := &reply{text: res.Text(), model: res.ModelVersion}
	if u := res.UsageMetadata; u != nil {
		r.usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	if len(res.Candidates) > 0 {
		r.truncated = res.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	return r, nil
}

// geminiSchema converts the subset of JSON Schema used by the narrative
// schemas. additionalProperties has no Gemini equivalent and is dropped.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{}
	for key, v := range def {
		switch key {
		case "type":
			t, _ := v.(string)
			s.Type = geminiTypes[t]
			if s.Type == "" {
				s.Type = genai.TypeString
			}
		case "description":
			s.Description, _ = v.(string)
		case "enum":
			s.Enum = stringList(v)
		case "required":
			s.Required = stringList(v)
		case "items":
			if sub, ok := v.(map[string]any); ok {
				s.Items = geminiSchema(sub)
			}
		case "minItems", "maxItems":
			n, ok := v.(int)
			if !ok {
				continue
			}
			if key == "minItems" {
				s.MinItems = genai.Ptr(int64(n))
			} else {
				s.MaxItems = genai.Ptr(int64(n))
			}
		case "properties":
			props, _ := v.(map[string]any)
			s.Properties = make(map[string]*genai.Schema, len(props))
			for name, p := range props {
				if sub, ok := p.(map[string]any); ok {
					s.Properties[name] = geminiSchema(sub)
				}
			}
		}
	}
	return s
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
