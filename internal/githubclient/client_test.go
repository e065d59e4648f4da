package githubclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.GitHubConfig{
		BaseURL:    baseURL,
		Token:      "config-token",
		UserAgent:  "commitlens-test",
		APITimeout: 5 * time.Second,
		RateLimit:  1000,
		RateBurst:  1000,
	}, zaptest.NewLogger(t))
}

func testRef() schemas.RepoRef {
	return schemas.RepoRef{Owner: "octo", Repo: "hello", Branch: "main"}
}

func TestListCommits_QueryAndHeaders(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	var gotQuery map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`[{"sha": "deadbeef"}, {"sha": "cafebabe"}]`))
	}))
	defer ts.Close()

	since := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)

	payloads, err := newTestClient(t, ts.URL).ListCommits(context.Background(), testRef(), schemas.CommitSelection{
		Mode:    schemas.SelectRange,
		PerPage: 10,
		Since:   since,
		Until:   until,
	})
	require.NoError(t, err)

	assert.Equal(t, "/repos/octo/hello/commits", gotPath)
	assert.Equal(t, "main", gotQuery["sha"][0])
	assert.Equal(t, "10", gotQuery["per_page"][0])
	assert.Equal(t, since.Format(time.RFC3339), gotQuery["since"][0])
	assert.Equal(t, until.Format(time.RFC3339), gotQuery["until"][0])
	assert.Equal(t, "Bearer config-token", gotAuth)
	assert.Equal(t, acceptHeader, gotAccept)

	require.Len(t, payloads, 2)
	assert.Equal(t, "deadbeef", payloads[0]["sha"])
}

func TestGetCommit_PerRequestTokenOverridesConfig(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"sha": "deadbeef", "files": []}`))
	}))
	defer ts.Close()

	ref := testRef()
	ref.Token = "request-token"

	payload, err := newTestClient(t, ts.URL).GetCommit(context.Background(), ref, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "Bearer request-token", gotAuth)
	assert.Equal(t, "deadbeef", payload["sha"])
}

func TestGetCommit_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).GetCommit(context.Background(), testRef(), "deadbeef")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "commit octo/hello@deadbeef", notFound.Resource)
}

func TestGetRepository_ForbiddenIsRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "API rate limit exceeded"}`, http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).GetRepository(context.Background(), testRef())
	require.Error(t, err)

	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, "repository octo/hello", limited.Resource)
}

func TestListCommits_ClientErrorIsPermanentProviderError(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message": "Validation Failed"}`, http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).ListCommits(context.Background(), testRef(), schemas.CommitSelection{})
	require.Error(t, err)

	var provider *ProviderError
	require.ErrorAs(t, err, &provider)
	assert.Equal(t, http.StatusUnprocessableEntity, provider.StatusCode)
	assert.Equal(t, 1, calls, "4xx responses must not be retried")
}

func TestListCommits_MalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).ListCommits(context.Background(), testRef(), schemas.CommitSelection{})
	require.Error(t, err)

	var provider *ProviderError
	require.ErrorAs(t, err, &provider)
	assert.Contains(t, provider.Body, "malformed")
}
