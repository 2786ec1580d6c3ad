package llm

import (
	"context"
	"fmt"

	"github.com/dukerupert/mealwise/internal/config"
)

// New builds the generator selected by cfg. It returns (nil, nil) when meal
// generation is disabled.
func New(ctx context.Context, cfg config.LLMConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
