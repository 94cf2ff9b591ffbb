package llm

import "context"

type purposeKey struct{}

// WithPurpose labels the calls made with ctx (e.g. "baseline", "udl_engagement").
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
