package extraction

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JaimeStill/applytrack/internal/config"
)

// NewModel creates the language model for the configured provider. client
// carries model traffic; it should not impose a timeout.
func NewModel(cfg *config.ExtractionConfig, client *http.Client) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		opts := []ollama.Option{
			ollama.WithModel(cfg.Model),
			ollama.WithFormat("json"),
		}
		if client != nil {
			opts = append(opts, ollama.WithHTTPClient(client))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		return ollama.New(opts...)

	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.Token),
		}
		if client != nil {
			opts = append(opts, openai.WithHTTPClient(client))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)

	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
