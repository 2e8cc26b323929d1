package llm

import (
	"context"
	"fmt"

	"github.com/lennai/lennai/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewImageGenerator returns the illustration capability. Only Gemini can
// render images; without a Gemini key it returns (nil, nil) and callers
// fall back to imageless content.
func NewImageGenerator(ctx context.Context, cfg Config, eventRepo store.EventRepo) (ImageGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, nil
	}
	p, err := NewGeminiProvider(ctx, cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("initializing image generator: %w", err)
	}
	logged := WithImageLogging(p.ImageGenerator(), "gemini", eventRepo)
	return WithImageRetry(logged, cfg.Retry), nil
}

// NewProviderFromEnv resolves configuration from the environment and
// builds the text provider and the optional image generator.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, ImageGenerator, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, nil, err
	}
	img, err := NewImageGenerator(ctx, cfg, eventRepo)
	if err != nil {
		return nil, nil, err
	}
	return p, img, nil
}
