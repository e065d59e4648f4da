// File: internal/analyzer/service.go
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
	"github.com/commitlens/commitlens-cli/internal/llmclient"
	"github.com/commitlens/commitlens-cli/internal/prompt"
	"github.com/commitlens/commitlens-cli/internal/retrieval"
	"github.com/commitlens/commitlens-cli/internal/signature"
)

// ErrNoContent marks the "nothing to analyze" condition: an empty filtered
// file set or a diff with no textual content. It is not a failure of any
// subsystem and callers render it as a neutral message, not an error banner.
var ErrNoContent = errors.New("nothing to analyze: no textual diff content")

// LLMFactory resolves a model configuration into a client. Injected so tests
// can substitute a fake without standing up provider endpoints.
type LLMFactory func(cfg config.LLMModelConfig, logger *zap.Logger) (schemas.LLMClient, error)

// Service drives the commit-analysis pipeline: fetch, normalize, filter,
// combine, detect, retrieve, assemble, generate. It is stateless across
// requests and safe for concurrent use.
type Service struct {
	cfg       *config.Config
	provider  schemas.CommitProvider
	retriever schemas.KnowledgeRetriever
	detector  *signature.Detector
	newLLM    LLMFactory
	logger    *zap.Logger
}

// New wires a Service. A nil llmFactory uses the real provider clients.
func New(cfg *config.Config, provider schemas.CommitProvider, retriever schemas.KnowledgeRetriever,
	detector *signature.Detector, llmFactory LLMFactory, logger *zap.Logger) *Service {

	if logger == nil {
		logger = zap.NewNop()
	}
	if llmFactory == nil {
		llmFactory = llmclient.NewClient
	}
	return &Service{
		cfg:       cfg,
		provider:  provider,
		retriever: retriever,
		detector:  detector,
		newLLM:    llmFactory,
		logger:    logger.Named("analyzer"),
	}
}

// Analyze runs one analysis request through prompt assembly and the model
// call, converting every failure into a structured result. No error ever
// crosses this boundary unconverted.
func (s *Service) Analyze(ctx context.Context, req schemas.AnalysisRequest) schemas.AnalysisResult {
	if strings.TrimSpace(req.Diff) == "" {
		return schemas.AnalysisResult{NoContent: true, Error: ErrNoContent.Error()}
	}
	if len(req.AnalysisTypes) == 0 {
		return failure("at least one analysis type must be requested")
	}

	mode := req.Mode
	if mode == "" {
		mode = schemas.ModeGeneral
	}

	in := prompt.Input{
		Diff:          req.Diff,
		Filename:      req.Filename,
		CommitMessage: req.CommitMessage,
		AnalysisTypes: req.AnalysisTypes,
	}

	var (
		variant     prompt.Mode
		temperature float32
	)

	switch mode {
	case schemas.ModeCritical:
		// Triage must not be biased by retrieved documents: the Critical
		// variant structurally carries no knowledge text.
		variant = prompt.Critical{}
		temperature = s.cfg.Analysis.CriticalTemperature
	default:
		variant = prompt.General{Knowledge: s.gatherKnowledge(ctx, req.Diff)}
		temperature = s.cfg.Analysis.GeneralTemperature
	}

	client, err := s.resolveLLM(req)
	if err != nil {
		return failure(fmt.Sprintf("model selection failed: %v", err))
	}

	text, err := client.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: prompt.SystemPrompt(variant),
		UserPrompt:   prompt.Build(in, variant),
		Options: schemas.GenerationOptions{
			Temperature: temperature,
			MaxTokens:   s.cfg.Analysis.MaxTokens,
		},
	})
	if err != nil {
		s.logger.Error("Model call failed", zap.Error(err))
		return failure(fmt.Sprintf("analysis failed: %v", err))
	}

	return schemas.AnalysisResult{Success: true, Result: text}
}

// gatherKnowledge runs the detector over the diff and retrieves formatted
// knowledge text. Any retrieval trouble has already been absorbed by the
// retriever; an empty string simply means no knowledge block.
func (s *Service) gatherKnowledge(ctx context.Context, diff string) string {
	categories := s.detector.Detect(diff)
	if len(categories) == 0 {
		return ""
	}

	docs := s.retriever.Retrieve(ctx, categories)
	knowledge := retrieval.FormatForPrompt(docs, retrieval.FormatOptions{
		MinScore:        s.cfg.Retrieval.MinScore,
		MaxContentChars: s.cfg.Retrieval.MaxContentChars,
	})

	s.logger.Debug("Knowledge gathering complete",
		zap.Int("categories", len(categories)),
		zap.Int("documents", len(docs)),
		zap.Bool("injected", knowledge != ""),
	)
	return knowledge
}

// resolveLLM picks the model configuration for the request: explicit model id
// first, then the first configured model of the requested provider, then the
// configured default.
func (s *Service) resolveLLM(req schemas.AnalysisRequest) (schemas.LLMClient, error) {
	if req.Model != "" {
		mc, err := s.cfg.ModelConfig(req.Model)
		if err != nil {
			return nil, err
		}
		return s.newLLM(mc, s.logger)
	}

	if req.Provider != "" {
		for _, mc := range s.cfg.LLM.Models {
			if string(mc.Provider) == req.Provider {
				return s.newLLM(mc, s.logger)
			}
		}
		return nil, fmt.Errorf("no configured model for provider %q", req.Provider)
	}

	mc, err := s.cfg.ModelConfig("")
	if err != nil {
		return nil, err
	}
	return s.newLLM(mc, s.logger)
}

func failure(msg string) schemas.AnalysisResult {
	return schemas.AnalysisResult{Error: msg}
}
