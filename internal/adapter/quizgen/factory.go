// Package quizgen provides the language models used to generate quizzes.
package quizgen

import (
	"context"
	"fmt"
	"net/http"

	"pdf-quiz/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// NewModel builds the llms.Model selected by cfg.Provider.
// Construction never contacts the provider.
func NewModel(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llms.Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiModel(ctx, cfg, httpClient, logger)
	case config.ProviderOllama:
		logger.Info("Initializing Ollama model",
			zap.String("server_url", cfg.OllamaServerURL),
			zap.String("model", cfg.OllamaModel))
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.OllamaServerURL),
			ollama.WithModel(cfg.OllamaModel),
			ollama.WithFormat("json"),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama LLM client: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
