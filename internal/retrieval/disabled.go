// File: internal/retrieval/disabled.go
package retrieval

import (
	"context"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// Disabled is the retriever used when no knowledge index is configured. It
// always returns no documents; analysis proceeds without knowledge.
type Disabled struct{}

// Retrieve implements schemas.KnowledgeRetriever.
func (Disabled) Retrieve(ctx context.Context, categories []schemas.Category) []schemas.KnowledgeDocument {
	return nil
}
