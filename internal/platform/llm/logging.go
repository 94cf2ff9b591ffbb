package llm

import (
	"context"
	"time"

	"github.com/yungbote/udl-lesson-backend/internal/platform/ctxutil"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type loggingProvider struct {
	inner    Provider
	provider string
	log      *logger.Logger
}

// WithLogging logs one line per Generate call: purpose, model, latency,
// token usage and outcome. Prompt bodies are only logged at debug level.
func WithLogging(p Provider, providerName string, log *logger.Logger) Provider {
	if log == nil {
		return p
	}
	return &loggingProvider{inner: p, provider: providerName, log: log.With("service", "LLM")}
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []interface{}{
		"provider", l.provider,
		"model", l.inner.ModelID(),
		"purpose", PurposeFrom(ctx),
		"latency_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	}
	if req.Schema != nil {
		fields = append(fields, "schema", req.Schema.Name)
	}
	if sid := ctxutil.LessonSession(ctx); sid != "" {
		fields = append(fields, "lesson_session", sid)
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		fields = append(fields, "request_id", td.RequestID)
	}
	if resp != nil {
		fields = append(fields,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop_reason", resp.StopReason,
		)
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, "error", err)...)
		return resp, err
	}
	l.log.Info("llm request", fields...)
	l.log.Debug("llm exchange", "purpose", PurposeFrom(ctx), "system_chars", len(req.System), "reply_chars", len(resp.Text))
	return resp, nil
}
