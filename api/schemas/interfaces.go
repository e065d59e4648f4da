// -- api/schemas/interfaces.go --
package schemas

import "context"

// RawPayload is a provider JSON object before normalization. It never crosses
// the normalizer boundary: orchestration code converts it to a canonical
// record immediately after receipt.
type RawPayload = map[string]any

// CommitProvider is the narrow contract with the version-control hosting
// collaborator. Implementations return the provider's payloads untouched so
// the normalizer owns all shape decisions.
type CommitProvider interface {
	// ListCommits fetches commit summaries according to the selection.
	ListCommits(ctx context.Context, ref RepoRef, sel CommitSelection) ([]RawPayload, error)
	// GetCommit fetches one commit's detail, including its files sequence.
	GetCommit(ctx context.Context, ref RepoRef, sha string) (RawPayload, error)
	// GetRepository fetches repository metadata.
	GetRepository(ctx context.Context, ref RepoRef) (RawPayload, error)
}

// KnowledgeRetriever maps detected categories to ranked knowledge documents.
// Retrieval is best-effort: implementations absorb their own failures and
// return an empty slice rather than an error, and issue no call at all for an
// empty category set.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, categories []Category) []KnowledgeDocument
}

// GenerationOptions are the sampling parameters for one model call.
type GenerationOptions struct {
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// GenerationRequest encapsulates a complete chat-style request to the LLM.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      GenerationOptions `json:"options"`
}

// LLMClient defines a standard interface for interacting with a large
// language model provider, decoupling the pipeline from any vendor API.
type LLMClient interface {
	// Generate sends the prompts to the model and returns the generated text.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
