package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/store"
)

// LoggingProvider stores every call as an LLM event and writes a log line.
type LoggingProvider struct {
	inner  Provider
	name   string
	events store.EventRepo
	logger *zap.Logger
}

// WithLogging wraps p. name is the provider recorded on each event; events
// may be nil to log only. A nil logger discards output.
func WithLogging(p Provider, name string, events store.EventRepo, logger *zap.Logger) *LoggingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, name: name, events: events, logger: logger}
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev := l.event(PurposeFrom(ctx), req, resp, err, time.Since(start))

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", fields...)
	}

	if l.events != nil {
		// The caller may already be cancelled; the record is still wanted.
		if serr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); serr != nil {
			l.logger.Warn("failed to log LLM request event", zap.Error(serr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) event(purpose string, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		// Keep what the model said when it was rejected by our checks.
		if body := rejectedContent(err); body != "" {
			ev.ResponseBody = body
		}
	}
	return ev
}

func rejectedContent(err error) string {
	switch e := err.(type) {
	case *ErrInvalidResponse:
		return string(e.Content)
	case *ErrMaxTokensExceeded:
		return string(e.Content)
	}
	return ""
}

// describeRequest renders req for "ayurai llm view".
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
