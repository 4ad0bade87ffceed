package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var llmEventFields = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	stmt := build().Insert(tableLLMEvents).
		Columns(llmEventFields[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody,
		)
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := build().Select(llmEventFields...).
		From(entsql.Table(tableLLMEvents)).
		OrderBy(entsql.Desc(colSequence))
	events, err := r.scan(ctx, applyQueryOpts(sel, opts))
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	sel := build().Select(llmEventFields...).
		From(entsql.Table(tableLLMEvents)).
		Where(entsql.EQ(colID, id)).
		Limit(1)
	events, err := r.scan(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM event %d: %w", id, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model")
}

func (r *eventRepo) usage(ctx context.Context, key string) ([]LLMUsage, error) {
	sel := build().Select(
		key,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("success"), "successes"),
		entsql.As(entsql.Sum("input_tokens"), "input"),
		entsql.As(entsql.Sum("output_tokens"), "output"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(tableLLMEvents)).
		GroupBy(key).
		OrderBy(entsql.Desc("calls"), entsql.Asc(key))

	var out []LLMUsage
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var (
			u         LLMUsage
			successes int
		)
		if err := rows.Scan(&u.Key, &u.Calls, &successes, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return err
		}
		u.Failures = u.Calls - successes
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage by %s: %w", key, err)
	}
	return out, nil
}

func (r *eventRepo) scan(ctx context.Context, sel *entsql.Selector) ([]LLMRequestEvent, error) {
	var out []LLMRequestEvent
	err := queryRows(ctx, r.db, sel, func(rows *sql.Rows) error {
		var e LLMRequestEvent
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody,
		); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}
