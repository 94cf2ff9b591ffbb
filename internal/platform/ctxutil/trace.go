package ctxutil

import "context"

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

type lessonSessionKey struct{}

// WithLessonSession tags ctx with the lesson session an operation is acting on
// so downstream logs and spans can carry it.
func WithLessonSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, lessonSessionKey{}, sessionID)
}

func LessonSession(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(lessonSessionKey{}).(string)
	return id
}
