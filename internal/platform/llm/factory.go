package llm

import (
	"context"
	"fmt"

	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

// NewProvider builds the configured provider wrapped with logging. It
// returns ErrNotConfigured when AI generation is disabled so callers can
// run on fallbacks alone.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, cfg.Provider, log), nil
}
