package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/githubclient"
)

// fakeAnalyzer satisfies AnalyzerService with canned responses.
type fakeAnalyzer struct {
	analyzeResult schemas.AnalysisResult
	lastAnalyze   schemas.AnalysisRequest

	fetchResult *schemas.BatchFetchResult
	fetchErr    error
	lastRef     schemas.RepoRef
	lastSel     schemas.CommitSelection
	lastTypes   []string

	detail    *schemas.CommitDetail
	detailErr error

	repoInfo *schemas.RepositoryInfo
	repoErr  error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req schemas.AnalysisRequest) schemas.AnalysisResult {
	f.lastAnalyze = req
	return f.analyzeResult
}

func (f *fakeAnalyzer) FetchCommits(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection, suffixes []string) (*schemas.BatchFetchResult, error) {
	f.lastRef, f.lastSel, f.lastTypes = ref, sel, suffixes
	return f.fetchResult, f.fetchErr
}

func (f *fakeAnalyzer) FetchCommitDetail(ctx context.Context, ref schemas.RepoRef, sha string) (*schemas.CommitDetail, error) {
	f.lastRef = ref
	return f.detail, f.detailErr
}

func (f *fakeAnalyzer) FetchRepository(ctx context.Context, ref schemas.RepoRef) (*schemas.RepositoryInfo, error) {
	f.lastRef = ref
	return f.repoInfo, f.repoErr
}

func newTestRouter(t *testing.T, svc AnalyzerService) http.Handler {
	t.Helper()
	h := NewHandlers(svc, zaptest.NewLogger(t))

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/commits/fetch", h.FetchCommits)
		r.Get("/commits/{owner}/{repo}/{sha}", h.CommitDetail)
		r.Get("/repos/{owner}/{repo}", h.Repository)
	})
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestRouter(t, &fakeAnalyzer{}), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyze_AlwaysOKWithStructuredBody(t *testing.T) {
	svc := &fakeAnalyzer{analyzeResult: schemas.AnalysisResult{Success: true, Result: "## Code Analysis"}}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", schemas.AnalysisRequest{
		Diff:          "+ x = 1",
		AnalysisTypes: []schemas.AnalysisType{schemas.AnalysisCodeQuality},
		Mode:          schemas.ModeGeneral,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result schemas.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "## Code Analysis", result.Result)
	assert.Equal(t, "+ x = 1", svc.lastAnalyze.Diff)

	// Pipeline failures stay HTTP 200.
	svc.analyzeResult = schemas.AnalysisResult{Error: "analysis failed: model unavailable"}
	rec = doJSON(t, router, http.MethodPost, "/api/analyze", schemas.AnalysisRequest{Diff: "+ x"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "model unavailable")
}

func TestAnalyze_MalformedBody(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchCommits_RequiresOwnerAndRepo(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{})

	rec := doJSON(t, router, http.MethodPost, "/api/commits/fetch", FetchCommitsRequest{Owner: "octo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchCommits_PassesThroughSelection(t *testing.T) {
	svc := &fakeAnalyzer{fetchResult: &schemas.BatchFetchResult{Total: 2, Succeeded: 2}}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/commits/fetch", FetchCommitsRequest{
		Owner:     "octo",
		Repo:      "hello",
		Branch:    "main",
		Selection: schemas.CommitSelection{Mode: schemas.SelectRecent, PerPage: 2},
		FileTypes: []string{".py"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "octo", svc.lastRef.Owner)
	assert.Equal(t, "main", svc.lastRef.Branch)
	assert.Equal(t, schemas.SelectRecent, svc.lastSel.Mode)
	assert.Equal(t, []string{".py"}, svc.lastTypes)

	var result schemas.BatchFetchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Total)
}

func TestProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"not found", &githubclient.NotFoundError{Resource: "repository octo/nope"}, http.StatusNotFound, "not_found"},
		{"rate limited", &githubclient.RateLimitedError{Resource: "repository octo/hello"}, http.StatusTooManyRequests, "rate_limited"},
		{"provider", &githubclient.ProviderError{Resource: "repository octo/hello", StatusCode: 502}, http.StatusBadGateway, "provider_error"},
		{"network", &githubclient.NetworkError{Resource: "repository octo/hello", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "network_error"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeAnalyzer{repoErr: tt.err})

			rec := doJSON(t, router, http.MethodGet, "/api/repos/octo/hello", nil)
			require.Equal(t, tt.wantStatus, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
		})
	}
}

func TestCommitDetail_ForwardsBearerToken(t *testing.T) {
	svc := &fakeAnalyzer{detail: &schemas.CommitDetail{CommitRecord: schemas.CommitRecord{SHA: "deadbeef"}}}
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/commits/octo/hello/deadbeef", nil)
	req.Header.Set("Authorization", "Bearer ghp_token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ghp_token", svc.lastRef.Token)

	var detail schemas.CommitDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "deadbeef", detail.SHA)
}
