// File: internal/githubclient/errors.go
package githubclient

import "fmt"

// NotFoundError reports a missing repository or commit. Resource names what
// was looked up, e.g. "commit octo/hello@deadbeef".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RateLimitedError reports provider quota exhaustion (HTTP 403).
type RateLimitedError struct {
	Resource string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited or forbidden by provider while fetching %s", e.Resource)
}

// ProviderError carries any other non-success provider response.
type ProviderError struct {
	Resource   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error fetching %s: status %d: %s", e.Resource, e.StatusCode, e.Body)
}

// NetworkError reports a timeout or connection failure, distinct from a
// provider-level error response.
type NetworkError struct {
	Resource string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
