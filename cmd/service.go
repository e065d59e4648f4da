// -- cmd/service.go --
package cmd

import (
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/analyzer"
	"github.com/commitlens/commitlens-cli/internal/config"
	"github.com/commitlens/commitlens-cli/internal/githubclient"
	"github.com/commitlens/commitlens-cli/internal/retrieval"
	"github.com/commitlens/commitlens-cli/internal/signature"
)

// buildService assembles the analyzer service from configuration. Knowledge
// retrieval is optional: without a configured index the pipeline simply runs
// without document enrichment.
func buildService(cfg *config.Config, logger *zap.Logger) (*analyzer.Service, error) {
	provider := githubclient.NewClient(cfg.GitHub, logger)
	detector := signature.NewDetector(cfg.Signature, logger)

	var retriever schemas.KnowledgeRetriever = retrieval.Disabled{}
	if cfg.Retrieval.Endpoint != "" {
		searchClient, err := retrieval.NewAzureSearchClient(cfg.Retrieval, logger)
		if err != nil {
			return nil, err
		}
		retriever = retrieval.NewRetriever(searchClient, cfg.Retrieval, logger)
	} else {
		logger.Info("No knowledge index configured; retrieval disabled")
	}

	return analyzer.New(cfg, provider, retriever, detector, nil, logger), nil
}
