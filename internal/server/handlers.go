// File: internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/githubclient"
)

// AnalyzerService is the slice of the analyzer the transport needs; the
// concrete service satisfies it.
type AnalyzerService interface {
	Analyze(ctx context.Context, req schemas.AnalysisRequest) schemas.AnalysisResult
	FetchCommits(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection, suffixes []string) (*schemas.BatchFetchResult, error)
	FetchCommitDetail(ctx context.Context, ref schemas.RepoRef, sha string) (*schemas.CommitDetail, error)
	FetchRepository(ctx context.Context, ref schemas.RepoRef) (*schemas.RepositoryInfo, error)
}

// Handlers holds the route implementations.
type Handlers struct {
	svc    AnalyzerService
	logger *zap.Logger
}

// NewHandlers wires the transport handlers to the analyzer service.
func NewHandlers(svc AnalyzerService, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{svc: svc, logger: logger.Named("http_handlers")}
}

// FetchCommitsRequest is the wire shape of a batch fetch call.
type FetchCommitsRequest struct {
	Owner     string                  `json:"owner"`
	Repo      string                  `json:"repo"`
	Branch    string                  `json:"branch,omitempty"`
	Token     string                  `json:"token,omitempty"`
	Selection schemas.CommitSelection `json:"selection"`
	FileTypes []string                `json:"file_types,omitempty"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// Root reports service identity, mirroring the original dashboard backend.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "commit analysis API",
		"status":  "running",
	})
}

// Health is the liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Analyze runs one analysis request. The response is always HTTP 200 with a
// structured success/failure body; pipeline errors never become transport
// errors.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req schemas.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed analysis request body")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Analyze(r.Context(), req))
}

// FetchCommits runs a batch commit fetch.
func (h *Handlers) FetchCommits(w http.ResponseWriter, r *http.Request) {
	var req FetchCommitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed fetch request body")
		return
	}
	if req.Owner == "" || req.Repo == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "owner and repo are required")
		return
	}

	ref := schemas.RepoRef{Owner: req.Owner, Repo: req.Repo, Branch: req.Branch, Token: req.Token}
	result, err := h.svc.FetchCommits(r.Context(), ref, req.Selection, req.FileTypes)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CommitDetail returns one normalized commit.
func (h *Handlers) CommitDetail(w http.ResponseWriter, r *http.Request) {
	ref := schemas.RepoRef{
		Owner: chi.URLParam(r, "owner"),
		Repo:  chi.URLParam(r, "repo"),
		Token: bearerToken(r),
	}
	detail, err := h.svc.FetchCommitDetail(r.Context(), ref, chi.URLParam(r, "sha"))
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Repository returns repository metadata.
func (h *Handlers) Repository(w http.ResponseWriter, r *http.Request) {
	ref := schemas.RepoRef{
		Owner: chi.URLParam(r, "owner"),
		Repo:  chi.URLParam(r, "repo"),
		Token: bearerToken(r),
	}
	info, err := h.svc.FetchRepository(r.Context(), ref)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeProviderError maps the typed provider errors onto user-legible HTTP
// responses, keeping not-found and rate-limit distinct from generic failure.
func (h *Handlers) writeProviderError(w http.ResponseWriter, err error) {
	var (
		notFound    *githubclient.NotFoundError
		rateLimited *githubclient.RateLimitedError
		provider    *githubclient.ProviderError
		network     *githubclient.NetworkError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &rateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", rateLimited.Error())
	case errors.As(err, &provider):
		writeError(w, http.StatusBadGateway, "provider_error", provider.Error())
	case errors.As(err, &network):
		writeError(w, http.StatusGatewayTimeout, "network_error", network.Error())
	default:
		h.logger.Error("Unexpected pipeline error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message, StatusCode: status})
}
