package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/platform/envutil"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
	ProviderNone       = "none"
)

type Config struct {
	// Provider is one of the Provider* constants. Empty or "none" disables
	// AI generation.
	Provider string

	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	MaxTokens   int
	Temperature float64
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func DefaultConfig() Config {
	return Config{
		Provider:    ProviderNone,
		OpenAI:      OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:   AnthropicConfig{Model: "claude-haiku"},
		Gemini:      GeminiConfig{Model: "gemini-flash"},
		OpenRouter:  OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		MaxTokens:   4000,
		Temperature: 0.7,
	}
}

// ConfigFromEnv reads keys and models from the environment. LLM_PROVIDER
// pins a provider; otherwise the first provider with an API key wins, in the
// order OpenAI, Anthropic, Gemini, OpenRouter.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = envutil.String("OPENAI_API_KEY", "")
	cfg.OpenAI.Model = envutil.String("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = envutil.String("OPENAI_BASE_URL", "")
	cfg.Anthropic.APIKey = envutil.String("ANTHROPIC_API_KEY", "")
	cfg.Anthropic.Model = envutil.String("ANTHROPIC_MODEL", cfg.Anthropic.Model)
	cfg.Anthropic.BaseURL = envutil.String("ANTHROPIC_BASE_URL", "")
	cfg.Gemini.APIKey = envutil.String("GEMINI_API_KEY", "")
	cfg.Gemini.Model = envutil.String("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.OpenRouter.APIKey = envutil.String("OPENROUTER_API_KEY", "")
	cfg.OpenRouter.Model = envutil.String("OPENROUTER_MODEL", cfg.OpenRouter.Model)
	cfg.OpenRouter.BaseURL = envutil.String("OPENROUTER_BASE_URL", "")
	cfg.MaxTokens = envutil.Int("LLM_MAX_TOKENS", cfg.MaxTokens)
	cfg.Temperature = envutil.Float("LLM_TEMPERATURE", cfg.Temperature)

	if p := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))); p != "" {
		cfg.Provider = p
		return cfg
	}
	cfg.Provider = cfg.discover()
	return cfg
}

func (c Config) discover() string {
	switch {
	case c.OpenAI.APIKey != "":
		return ProviderOpenAI
	case c.Anthropic.APIKey != "":
		return ProviderAnthropic
	case c.Gemini.APIKey != "":
		return ProviderGemini
	case c.OpenRouter.APIKey != "":
		return ProviderOpenRouter
	default:
		return ProviderNone
	}
}

// Enabled reports whether a real or mock provider should be built.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks the selected provider has what it needs.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "OPENAI_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "ANTHROPIC_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%w: %s is required for the %s provider", ErrNotConfigured, env, c.Provider)
	}
	return nil
}
