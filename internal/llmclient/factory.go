// File: internal/llmclient/factory.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

// NewClient is a factory function that creates an LLMClient for the given
// model configuration.
func NewClient(cfg config.LLMModelConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderAzureOpenAI:
		return NewAzureOpenAIClient(cfg, logger)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	case config.ProviderGoogle:
		return NewGoogleClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: %q. Supported: [%s, %s, %s]",
			cfg.Provider, config.ProviderAzureOpenAI, config.ProviderOpenAI, config.ProviderGoogle)
	}
}
