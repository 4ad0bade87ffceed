package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	reply *reply
	err   error

	gotModel string
	gotReq   Request
}

func (s *stubBackend) send(_ context.Context, model string, req Request) (*reply, error) {
	s.gotModel = model
	s.gotReq = req
	return s.reply, s.err
}

func TestClient_Generate(t *testing.T) {
	ctx := WithPurpose(context.Background(), "daily-routine")

	tests := []struct {
		name    string
		reply   reply
		schema  *Schema
		want    string
		wantErr func(*testing.T, error)
	}{
		{
			name:  "free text is trimmed",
			reply: reply{text: "  Rest early tonight.\n"},
			want:  "Rest early tonight.",
		},
		{
			name:   "structured answer",
			reply:  reply{text: `{"title":"Walk","minutes":15}`},
			schema: habitSchema,
			want:   `{"title":"Walk","minutes":15}`,
		},
		{
			name:   "fenced structured answer",
			reply:  reply{text: "```json\n{\"title\":\"Walk\",\"minutes\":15}\n```"},
			schema: habitSchema,
			want:   `{"title":"Walk","minutes":15}`,
		},
		{
			name:   "schema mismatch",
			reply:  reply{text: `{"title":"Walk"}`},
			schema: habitSchema,
			wantErr: func(t *testing.T, err error) {
				var invalid *ErrInvalidResponse
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, "daily-routine", invalid.Purpose)
			},
		},
		{
			name:  "empty answer",
			reply: reply{text: " \n "},
			wantErr: func(t *testing.T, err error) {
				var invalid *ErrInvalidResponse
				require.True(t, errors.As(err, &invalid))
				assert.Contains(t, err.Error(), "invalid daily-routine response")
			},
		},
		{
			name:  "cut off",
			reply: reply{text: `{"title":"Wa`, truncated: true},
			wantErr: func(t *testing.T, err error) {
				var trunc *ErrMaxTokensExceeded
				require.True(t, errors.As(err, &trunc))
				assert.Equal(t, 64, trunc.MaxTokens)
				assert.Equal(t, `{"title":"Wa`, string(trunc.Content))
				assert.Contains(t, err.Error(), "daily-routine")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{reply: &tt.reply}
			c := &client{backend: b, model: "test-model"}

			resp, err := c.Generate(ctx, Request{Schema: tt.schema, MaxTokens: 64})
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(resp.Content))
			assert.Equal(t, "test-model", b.gotModel)
		})
	}
}

func TestClient_UsageAndModel(t *testing.T) {
	b := &stubBackend{reply: &reply{
		text:  "ok",
		usage: Usage{InputTokens: 40, OutputTokens: 2},
		model: "test-model-0925",
	}}
	c := &client{backend: b, model: "test-model"}

	resp, err := c.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 2, TotalTokens: 42}, resp.Usage)
	assert.Equal(t, "test-model-0925", resp.Model)
	assert.Equal(t, "test-model", c.ModelID())
}

func TestClient_BackendErrorPassesThrough(t *testing.T) {
	want := &ErrRateLimit{Err: errors.New("429")}
	c := &client{backend: &stubBackend{err: want}, model: "m"}

	_, err := c.Generate(context.Background(), Request{})
	assert.Same(t, want, err)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
