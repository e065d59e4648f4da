// File: internal/commits/filter.go
package commits

import (
	"strings"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// FilterBySuffix keeps the files whose filename ends with at least one of the
// requested suffixes. Matching is a plain case-sensitive suffix comparison,
// no glob or regex semantics. An empty suffix set is the identity: all files
// are returned unchanged, preserving order.
func FilterBySuffix(files []schemas.FileChange, suffixes []string) []schemas.FileChange {
	if len(suffixes) == 0 {
		return files
	}

	kept := make([]schemas.FileChange, 0, len(files))
	for _, f := range files {
		for _, suffix := range suffixes {
			if strings.HasSuffix(f.Filename, suffix) {
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}
