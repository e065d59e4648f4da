// File: internal/retrieval/format.go
package retrieval

import (
	"fmt"
	"strings"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// KnowledgeHeader opens the rendered knowledge block. The critical-issue
// prompt mode asserts this marker never appears in its output.
const KnowledgeHeader = "**Related external API guidelines:**"

// FormatOptions bounds what gets rendered into the prompt.
type FormatOptions struct {
	// MinScore drops low-relevance documents; a document is kept only when
	// its score is strictly greater.
	MinScore float64
	// MaxContentChars truncates long document bodies, appending an ellipsis.
	MaxContentChars int
}

// DefaultFormatOptions matches the retrieval config defaults.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{MinScore: 0.5, MaxContentChars: 1500}
}

// FormatForPrompt renders retrieved documents into the text block injected
// into general-mode prompts. Returns "" when nothing survives the score
// cutoff, which callers treat as "no knowledge available".
func FormatForPrompt(docs []schemas.KnowledgeDocument, opts FormatOptions) string {
	var b strings.Builder

	for _, doc := range docs {
		if doc.Score <= opts.MinScore {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("\n\n")
			b.WriteString(KnowledgeHeader)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n### %s\n", doc.Filename)
		if doc.Caption != "" {
			fmt.Fprintf(&b, "Summary: %s\n\n", doc.Caption)
		}
		content := doc.Content
		if opts.MaxContentChars > 0 && len(content) > opts.MaxContentChars {
			content = content[:opts.MaxContentChars] + "..."
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}
