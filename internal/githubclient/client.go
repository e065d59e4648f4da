// File: internal/githubclient/client.go
package githubclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

const acceptHeader = "application/vnd.github.v3+json"

// Client is a thin REST client for the GitHub commits API. It implements
// schemas.CommitProvider and returns payloads undecoded beyond generic JSON,
// leaving all shape decisions to the normalizer.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	// limiter keeps us a polite API citizen regardless of provider quotas.
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient initializes the client from configuration.
func NewClient(cfg config.GitHubConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5.0
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(limit), burst),
		logger:     logger.Named("github_client"),
	}
}

// ListCommits fetches commit summaries for the selection. Recent-N supplies a
// page size, range supplies since/until; both may carry a branch.
func (c *Client) ListCommits(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection) ([]schemas.RawPayload, error) {
	query := url.Values{}
	if ref.Branch != "" {
		query.Set("sha", ref.Branch)
	}
	if sel.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(sel.PerPage))
	}
	if sel.Page > 0 {
		query.Set("page", strconv.Itoa(sel.Page))
	}
	if !sel.Since.IsZero() {
		query.Set("since", sel.Since.Format(time.RFC3339))
	}
	if !sel.Until.IsZero() {
		query.Set("until", sel.Until.Format(time.RFC3339))
	}

	resource := fmt.Sprintf("commits of %s/%s", ref.Owner, ref.Repo)
	path := fmt.Sprintf("/repos/%s/%s/commits", ref.Owner, ref.Repo)

	body, err := c.get(ctx, path, query, ref.Token, resource)
	if err != nil {
		return nil, err
	}

	var payloads []schemas.RawPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, &ProviderError{Resource: resource, StatusCode: http.StatusOK, Body: "malformed commit list payload"}
	}
	return payloads, nil
}

// GetCommit fetches one commit's detail, including its files sequence.
func (c *Client) GetCommit(ctx context.Context, ref schemas.RepoRef, sha string) (schemas.RawPayload, error) {
	resource := fmt.Sprintf("commit %s/%s@%s", ref.Owner, ref.Repo, sha)
	path := fmt.Sprintf("/repos/%s/%s/commits/%s", ref.Owner, ref.Repo, sha)

	body, err := c.get(ctx, path, nil, ref.Token, resource)
	if err != nil {
		return nil, err
	}

	var payload schemas.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProviderError{Resource: resource, StatusCode: http.StatusOK, Body: "malformed commit detail payload"}
	}
	return payload, nil
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, ref schemas.RepoRef) (schemas.RawPayload, error) {
	resource := fmt.Sprintf("repository %s/%s", ref.Owner, ref.Repo)
	path := fmt.Sprintf("/repos/%s/%s", ref.Owner, ref.Repo)

	body, err := c.get(ctx, path, nil, ref.Token, resource)
	if err != nil {
		return nil, err
	}

	var payload schemas.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProviderError{Resource: resource, StatusCode: http.StatusOK, Body: "malformed repository payload"}
	}
	return payload, nil
}

// get performs one rate-limited GET with retries on transient failures.
// Not-found and rate-limit responses are permanent and mapped to their typed
// errors; 5xx responses are retried and surface as ProviderError when the
// budget runs out.
func (c *Client) get(ctx context.Context, path string, query url.Values, token, resource string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Resource: resource, Err: err}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	b.MaxInterval = 5 * time.Second

	var body []byte

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Accept", acceptHeader)
		if c.userAgent != "" {
			httpReq.Header.Set("User-Agent", c.userAgent)
		}
		// Per-request token overrides the configured one; no token at all is
		// legal and just lowers provider-side limits.
		if token == "" {
			token = c.token
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}

		startTime := time.Now()
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.logger.Warn("Network error during provider request, retrying...",
				zap.String("resource", resource), zap.Error(err))
			return &NetworkError{Resource: resource, Err: err}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return &NetworkError{Resource: resource, Err: err}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			c.logger.Debug("Provider request complete",
				zap.String("resource", resource),
				zap.Duration("duration", time.Since(startTime)),
			)
			body = respBody
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(&NotFoundError{Resource: resource})
		case resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(&RateLimitedError{Resource: resource})
		case resp.StatusCode >= 500:
			// Transient; leave retryable.
			return &ProviderError{Resource: resource, StatusCode: resp.StatusCode, Body: string(respBody)}
		default:
			return backoff.Permanent(&ProviderError{Resource: resource, StatusCode: resp.StatusCode, Body: string(respBody)})
		}
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
