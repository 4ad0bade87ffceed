package llm

import "context"

type purposeKey struct{}

// PurposeUnlabeled is reported for calls made without WithPurpose.
const PurposeUnlabeled = "unlabeled"

// WithPurpose labels the calls made with ctx, e.g. "prakriti-report". The
// label is stored on LLM events and named in response errors.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return PurposeUnlabeled
}
