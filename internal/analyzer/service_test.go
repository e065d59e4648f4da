package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
	"github.com/commitlens/commitlens-cli/internal/retrieval"
	"github.com/commitlens/commitlens-cli/internal/signature"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProvider serves canned payloads keyed by sha and can fail selectively.
type fakeProvider struct {
	listPayloads []schemas.RawPayload
	listErr      error
	commits      map[string]schemas.RawPayload
	commitErrs   map[string]error
	repoPayload  schemas.RawPayload
}

func (f *fakeProvider) ListCommits(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection) ([]schemas.RawPayload, error) {
	return f.listPayloads, f.listErr
}

func (f *fakeProvider) GetCommit(ctx context.Context, ref schemas.RepoRef, sha string) (schemas.RawPayload, error) {
	if err, ok := f.commitErrs[sha]; ok {
		return nil, err
	}
	payload, ok := f.commits[sha]
	if !ok {
		return nil, errors.New("unexpected sha " + sha)
	}
	return payload, nil
}

func (f *fakeProvider) GetRepository(ctx context.Context, ref schemas.RepoRef) (schemas.RawPayload, error) {
	return f.repoPayload, nil
}

// fakeRetriever counts calls and serves canned documents.
type fakeRetriever struct {
	calls int
	docs  []schemas.KnowledgeDocument
}

func (f *fakeRetriever) Retrieve(ctx context.Context, categories []schemas.Category) []schemas.KnowledgeDocument {
	f.calls++
	return f.docs
}

// fakeLLM records the last generation request and echoes a fixed answer.
type fakeLLM struct {
	calls   int
	lastReq schemas.GenerationRequest
	answer  string
	err     error
}

func (f *fakeLLM) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.answer, f.err
}

func fakeFactory(llm *fakeLLM) LLMFactory {
	return func(cfg config.LLMModelConfig, logger *zap.Logger) (schemas.LLMClient, error) {
		return llm, nil
	}
}

func newTestService(provider schemas.CommitProvider, retriever schemas.KnowledgeRetriever, llm *fakeLLM) *Service {
	cfg := config.NewDefaultConfig()
	cfg.GitHub.FetchConcurrency = 2
	if retriever == nil {
		retriever = retrieval.Disabled{}
	}
	detector := signature.NewDetector(cfg.Signature, zap.NewNop())
	return New(cfg, provider, retriever, detector, fakeFactory(llm), zap.NewNop())
}

func analysisRequest(diff string) schemas.AnalysisRequest {
	return schemas.AnalysisRequest{
		Diff:          diff,
		Filename:      "a.py",
		CommitMessage: "fix: payments",
		AnalysisTypes: []schemas.AnalysisType{schemas.AnalysisCodeQuality},
	}
}

func TestAnalyze_EmptyDiffIsNoContent(t *testing.T) {
	llm := &fakeLLM{}
	svc := newTestService(&fakeProvider{}, nil, llm)

	got := svc.Analyze(context.Background(), analysisRequest("   \n "))

	assert.False(t, got.Success)
	assert.True(t, got.NoContent)
	assert.Zero(t, llm.calls, "no model call for empty input")
}

func TestAnalyze_NoAnalysisTypesIsFailure(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, &fakeLLM{})

	req := analysisRequest("+ x = 1")
	req.AnalysisTypes = nil

	got := svc.Analyze(context.Background(), req)
	assert.False(t, got.Success)
	assert.NotEmpty(t, got.Error)
	assert.False(t, got.NoContent)
}

func TestAnalyze_GeneralModeInjectsKnowledge(t *testing.T) {
	ret := &fakeRetriever{docs: []schemas.KnowledgeDocument{
		{Filename: "payment-guide.md", Content: "Use idempotency keys.", Score: 1.2},
	}}
	llm := &fakeLLM{answer: "## Code Analysis\nfine"}
	svc := newTestService(&fakeProvider{}, ret, llm)

	req := analysisRequest("+ resp := processPayment(card)")
	got := svc.Analyze(context.Background(), req)

	require.True(t, got.Success)
	assert.Equal(t, "## Code Analysis\nfine", got.Result)
	assert.Equal(t, 1, ret.calls)
	assert.Contains(t, llm.lastReq.UserPrompt, retrieval.KnowledgeHeader)
	assert.Contains(t, llm.lastReq.UserPrompt, "Use idempotency keys.")
	assert.InDelta(t, 0.3, llm.lastReq.Options.Temperature, 1e-6)
}

func TestAnalyze_NoSignaturesSkipsRetrieval(t *testing.T) {
	ret := &fakeRetriever{}
	llm := &fakeLLM{answer: "ok"}
	svc := newTestService(&fakeProvider{}, ret, llm)

	got := svc.Analyze(context.Background(), analysisRequest("+ x = 1"))

	require.True(t, got.Success)
	assert.Zero(t, ret.calls, "no detected categories means no retrieval call")
	assert.NotContains(t, llm.lastReq.UserPrompt, retrieval.KnowledgeHeader)
}

func TestAnalyze_CriticalModeNeverRetrieves(t *testing.T) {
	ret := &fakeRetriever{docs: []schemas.KnowledgeDocument{
		{Filename: "payment-guide.md", Content: "guideline", Score: 2},
	}}
	llm := &fakeLLM{answer: "ok"}
	svc := newTestService(&fakeProvider{}, ret, llm)

	req := analysisRequest("+ resp := processPayment(card)")
	req.Mode = schemas.ModeCritical

	got := svc.Analyze(context.Background(), req)

	require.True(t, got.Success)
	assert.Zero(t, ret.calls, "critical mode bypasses retrieval even with matching signatures")
	assert.NotContains(t, llm.lastReq.UserPrompt, retrieval.KnowledgeHeader)
	assert.Contains(t, llm.lastReq.UserPrompt, "critical failure risks")
	assert.InDelta(t, 0.1, llm.lastReq.Options.Temperature, 1e-6)
}

func TestAnalyze_ModelFailureIsStructuredResult(t *testing.T) {
	llm := &fakeLLM{err: errors.New("deployment unavailable")}
	svc := newTestService(&fakeProvider{}, nil, llm)

	got := svc.Analyze(context.Background(), analysisRequest("+ x = 1"))

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "deployment unavailable")
}

func TestAnalyze_UnknownModelIsFailure(t *testing.T) {
	svc := newTestService(&fakeProvider{}, nil, &fakeLLM{})

	req := analysisRequest("+ x = 1")
	req.Model = "no-such-model"

	got := svc.Analyze(context.Background(), req)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "model selection failed")
}

func TestAnalyze_LowScoreKnowledgeNotInjected(t *testing.T) {
	ret := &fakeRetriever{docs: []schemas.KnowledgeDocument{
		{Filename: "weak.md", Content: "barely related", Score: 0.4},
	}}
	llm := &fakeLLM{answer: "ok"}
	svc := newTestService(&fakeProvider{}, ret, llm)

	got := svc.Analyze(context.Background(), analysisRequest("+ processPayment(card)"))

	require.True(t, got.Success)
	assert.Equal(t, 1, ret.calls)
	assert.False(t, strings.Contains(llm.lastReq.UserPrompt, retrieval.KnowledgeHeader),
		"documents under the score cutoff never reach the prompt")
}
