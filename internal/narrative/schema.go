package narrative

import "github.com/ayurai/ayurai/internal/llm"

// SuggestionsSchema defines the JSON schema for quick suggestions.
var SuggestionsSchema = &llm.Schema{
	Name:        "quick-suggestions",
	Description: "Three short, actionable wellness suggestions for today",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly three suggestions, each under 15 words",
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}

// PlanSchema defines the JSON schema for suggested plan items.
var PlanSchema = &llm.Schema{
	Name:        "lifestyle-plan",
	Description: "Daily habits that rebalance the user's current state",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type":        "array",
				"description": "Three to six habits",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type": "string",
							"enum": []any{"Diet", "Movement", "Breath", "Routine"},
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Short imperative title (3-8 words)",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "How to do it, one or two sentences",
						},
						"benefits": map[string]any{
							"type":        "string",
							"description": "Why it helps this constitution, one sentence",
						},
					},
					"required":             []any{"category", "title", "description", "benefits"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"items"},
		"additionalProperties": false,
	},
}

type suggestionsOutput struct {
	Suggestions []string `json:"suggestions"`
}

type planOutput struct {
	Items []planItemOutput `json:"items"`
}

type planItemOutput struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Benefits    string `json:"benefits"`
}
