// File: internal/retrieval/retriever.go
package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

// defaultSynonyms expands a detected category into the search terms used to
// query the knowledge index.
var defaultSynonyms = map[schemas.Category][]string{
	schemas.CategoryHR:        {"hr", "human resources", "employee api", "hr system"},
	schemas.CategoryPayment:   {"payment", "billing", "payment gateway", "payment api"},
	schemas.CategorySupport:   {"support", "ticket", "customer support", "helpdesk"},
	schemas.CategoryInventory: {"inventory", "warehouse", "stock", "inventory system"},
	schemas.CategoryApproval:  {"approval", "workflow", "approval process", "sign-off"},
}

// Retriever maps detected categories to ranked knowledge documents via a
// single top-K index query. It implements schemas.KnowledgeRetriever:
// failures are absorbed locally and surface as an empty result, never as an
// error, so retrieval can never abort the analysis pipeline.
type Retriever struct {
	client   SearchIndexClient
	synonyms map[schemas.Category][]string
	topK     int
	logger   *zap.Logger
}

// NewRetriever builds a retriever over the given index client. A nil synonym
// override in the config keeps the built-in table.
func NewRetriever(client SearchIndexClient, cfg config.RetrievalConfig, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}

	synonyms := defaultSynonyms
	if len(cfg.Synonyms) > 0 {
		synonyms = make(map[schemas.Category][]string, len(cfg.Synonyms))
		for cat, terms := range cfg.Synonyms {
			synonyms[schemas.Category(cat)] = terms
		}
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 1
	}

	return &Retriever{
		client:   client,
		synonyms: synonyms,
		topK:     topK,
		logger:   logger.Named("knowledge_retriever"),
	}
}

// Retrieve expands the categories into one OR-joined query and issues at most
// one search call. An empty category set short-circuits without touching the
// network.
func (r *Retriever) Retrieve(ctx context.Context, categories []schemas.Category) []schemas.KnowledgeDocument {
	if len(categories) == 0 {
		return nil
	}

	query := r.buildQuery(categories)
	r.logger.Debug("Issuing knowledge retrieval", zap.String("query", query))

	hits, err := r.client.Search(ctx, query, r.topK)
	if err != nil {
		// Best effort: retrieval failure must never propagate.
		r.logger.Warn("Knowledge retrieval failed; continuing without documents", zap.Error(err))
		return nil
	}

	docs := make([]schemas.KnowledgeDocument, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, mapHit(hit))
	}

	r.logger.Info("Knowledge retrieval complete",
		zap.Int("documents", len(docs)),
		zap.Int("categories", len(categories)),
	)
	return docs
}

// buildQuery unions the synonym terms of every category, preserving first
// occurrence order, and OR-joins them into one query string. A category with
// no synonym entry contributes its own literal.
func (r *Retriever) buildQuery(categories []schemas.Category) string {
	var terms []string
	seen := make(map[string]bool)

	for _, cat := range categories {
		expanded, ok := r.synonyms[cat]
		if !ok {
			expanded = []string{string(cat)}
		}
		for _, term := range expanded {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	return strings.Join(terms, " OR ")
}

func mapHit(hit SearchHit) schemas.KnowledgeDocument {
	caption := ""
	if len(hit.Captions) > 0 {
		caption = hit.Captions[0].Text
	}
	filename := hit.Name
	if filename == "" {
		filename = hit.Path
	}
	score := hit.Score
	if score < 0 {
		score = 0
	}
	return schemas.KnowledgeDocument{
		Filename: filename,
		Content:  hit.Content,
		Caption:  caption,
		Score:    score,
	}
}
