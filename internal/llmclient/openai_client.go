// File: internal/llmclient/openai_client.go
package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

// OpenAIClient implements schemas.LLMClient against the public OpenAI
// chat-completions API.
type OpenAIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	config     config.LLMModelConfig
}

// NewOpenAIClient initializes the client.
func NewOpenAIClient(cfg config.LLMModelConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openAI API key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("llm_client.openai"),
	}, nil
}

// Generate sends the prompts to the model and returns the generated content,
// retrying transient failures.
func (c *OpenAIClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	payload := chatRequestPayload{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Options.Temperature,
		MaxTokens:   maxTokens(req.Options.MaxTokens, c.config.MaxTokens),
	}

	text, err := doChatCompletion(ctx, c.httpClient, c.logger, payload, func(httpReq *http.Request) {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}, c.endpoint)
	if err != nil {
		return "", &ModelCallError{Provider: "openai", Err: err}
	}
	return text, nil
}
