// File: internal/llmclient/azure_openai_client.go
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

// AzureOpenAIClient implements schemas.LLMClient against an Azure OpenAI
// deployment's chat-completions endpoint.
type AzureOpenAIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	config     config.LLMModelConfig
}

// NewAzureOpenAIClient initializes the client. Endpoint is the resource base
// URL; the deployment and API version are composed into the request path.
func NewAzureOpenAIClient(cfg config.LLMModelConfig, logger *zap.Logger) (*AzureOpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("azure OpenAI API key is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure OpenAI endpoint is required")
	}
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = cfg.Model
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-02-01"
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(cfg.Endpoint, "/"), deployment, apiVersion)

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &AzureOpenAIClient{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("llm_client.azure_openai"),
	}, nil
}

// Generate sends the prompts to the deployment and returns the generated
// content, retrying transient failures.
func (c *AzureOpenAIClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	payload := chatRequestPayload{
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Options.Temperature,
		MaxTokens:   maxTokens(req.Options.MaxTokens, c.config.MaxTokens),
	}

	text, err := doChatCompletion(ctx, c.httpClient, c.logger, payload, func(httpReq *http.Request) {
		httpReq.Header.Set("api-key", c.apiKey)
	}, c.endpoint)
	if err != nil {
		return "", &ModelCallError{Provider: "azure-openai", Err: err}
	}
	return text, nil
}

func maxTokens(requested, configured int) int {
	if requested > 0 {
		return requested
	}
	return configured
}

// doChatCompletion runs one OpenAI-shape chat call with exponential backoff.
// Authentication differs per provider and is injected via authorize.
func doChatCompletion(ctx context.Context, httpClient *http.Client, logger *zap.Logger,
	payload chatRequestPayload, authorize func(*http.Request), endpoint string) (string, error) {

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	b.MaxInterval = 30 * time.Second

	var responseContent string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		authorize(httpReq)

		startTime := time.Now()
		resp, err := httpClient.Do(httpReq)
		duration := time.Since(startTime)

		if err != nil {
			logger.Warn("Network error during LLM request, retrying...", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("chat completion error: status %d, body: %s", resp.StatusCode, respBody)
			switch resp.StatusCode {
			case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError:
				return err // Transient, retry.
			default:
				return backoff.Permanent(err)
			}
		}

		var responsePayload chatResponsePayload
		if err := json.Unmarshal(respBody, &responsePayload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response payload: %w", err))
		}
		if responsePayload.Error != nil {
			return backoff.Permanent(fmt.Errorf("chat completion API error: %s", responsePayload.Error.Message))
		}
		if len(responsePayload.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("chat completion returned no choices"))
		}

		logger.Info("LLM generation complete",
			zap.Duration("duration", duration),
			zap.Int("prompt_tokens", responsePayload.Usage.PromptTokens),
			zap.Int("completion_tokens", responsePayload.Usage.CompletionTokens),
			zap.Int("total_tokens", responsePayload.Usage.TotalTokens),
		)

		responseContent = responsePayload.Choices[0].Message.Content
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return responseContent, nil
}
