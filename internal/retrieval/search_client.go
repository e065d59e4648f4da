// File: internal/retrieval/search_client.go
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/internal/config"
)

const searchAPIVersion = "2023-11-01"

// SearchIndexClient issues free-text queries against a search index and
// returns ranked hits.
type SearchIndexClient interface {
	Search(ctx context.Context, query string, top int) ([]SearchHit, error)
}

// SearchHit is one raw result from the index, before knowledge-document
// mapping.
type SearchHit struct {
	Score    float64         `json:"@search.score"`
	Captions []searchCaption `json:"@search.captions"`
	Content  string          `json:"content"`
	Name     string          `json:"metadata_storage_name"`
	Path     string          `json:"metadata_storage_path"`
}

type searchCaption struct {
	Text string `json:"text"`
}

type searchRequestPayload struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
	Count  bool   `json:"count"`
}

type searchResponsePayload struct {
	Value []SearchHit `json:"value"`
}

// AzureSearchClient talks to an Azure AI Search index over its REST API.
type AzureSearchClient struct {
	endpoint   string
	indexName  string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAzureSearchClient initializes the client from retrieval configuration.
func NewAzureSearchClient(cfg config.RetrievalConfig, logger *zap.Logger) (*AzureSearchClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("retrieval endpoint is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("retrieval index name is required")
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &AzureSearchClient{
		endpoint:   cfg.Endpoint,
		indexName:  cfg.IndexName,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("search_client"),
	}, nil
}

// Search issues a single query and returns the raw hits.
func (c *AzureSearchClient) Search(ctx context.Context, query string, top int) ([]SearchHit, error) {
	body, err := json.Marshal(searchRequestPayload{Search: query, Top: top, Count: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.indexName, searchAPIVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search index returned status %d: %s", resp.StatusCode, respBody)
	}

	var payload searchResponsePayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.logger.Debug("Knowledge search complete",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("hits", len(payload.Value)),
	)
	return payload.Value, nil
}
