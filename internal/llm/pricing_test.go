package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantIn    float64
		wantFound bool
	}{
		{"gpt-4o-mini", 0.15, true},
		{"gpt-4o-2024-08-06", 2.5, true},
		{"gpt-4o-2024-05-13", 5, true},
		{"claude-haiku-4-5-20251001", 1, true},
		{"claude-opus-4-1-20250805", 15, true},
		{"claude-opus-4-20250514", 15, true},
		{"google/gemini-2.5-flash", 0.3, true},
		{"google/gemini-2.5-flash-lite:free", 0.1, true},
		{"gemini-3-pro-preview", 2, true},
		{"o3-mini-2025-01-31", 1.1, true},
		{"GPT-4.1", 2, true},
		{"llama-3-70b", 0, false},
		{"o3x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if (c != nil) != tt.wantFound {
				t.Fatalf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.wantFound)
			}
			if c != nil && c.InputPerMTok != tt.wantIn {
				t.Errorf("input price = %v, want %v", c.InputPerMTok, tt.wantIn)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}
	got := c.Cost(1000, 500)
	if want := 0.0105; math.Abs(got-want) > 1e-9 {
		t.Errorf("Cost = %v, want %v", got, want)
	}
}
