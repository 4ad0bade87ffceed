package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayurai/ayurai/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`"namaste"`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithPurpose(context.Background(), "chat")
	resp, err := p.Generate(ctx, Request{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text() != "namaste" {
		t.Fatalf("text = %q", resp.Text())
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "mock" || ev.Purpose != "chat" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 3 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nbe kind") || !strings.Contains(ev.RequestBody, "[user]\nhello") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
}

func TestLoggingProvider_RecordsFailureAndWarns(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	p := WithLogging(mock, "mock", repo, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage != "boom" {
		t.Fatalf("events = %+v", repo.events)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected a warning, got %v", logs.All())
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", repo, zap.New(core))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if logs.FilterMessage("failed to log LLM request event").Len() != 1 {
		t.Fatal("expected repo failure to be logged")
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"quoted \"text\""`, `quoted "text"`},
		{"## Heading\n\nplain markdown", "## Heading\n\nplain markdown"},
		{`{"a":1}`, `{"a":1}`},
		{`  spaced  `, `spaced`},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.raw)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLoggingProvider_KeepsRejectedAnswer(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: &ErrInvalidResponse{
		Purpose: "daily-routine",
		Content: []byte(`{"title":`),
		Err:     errors.New("not JSON"),
	}})
	p := WithLogging(mock, "gemini", repo, nil)

	_, err := p.Generate(WithPurpose(context.Background(), "daily-routine"), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	ev := repo.events[0]
	if ev.ResponseBody != `{"title":` || ev.Purpose != "daily-routine" || ev.Provider != "gemini" {
		t.Fatalf("event = %+v", ev)
	}
	if !strings.Contains(ev.ErrorMessage, "invalid daily-routine response") {
		t.Fatalf("error message = %q", ev.ErrorMessage)
	}
}
