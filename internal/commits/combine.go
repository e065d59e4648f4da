// File: internal/commits/combine.go
package commits

import (
	"fmt"
	"strings"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// CombineDiffs concatenates the per-file patches into one analyzable block,
// each patch preceded by a header naming its file, in input order. Files
// without patch text (binary files, pure renames) are skipped. An empty
// return value means there is nothing to analyze; it is not an error.
func CombineDiffs(files []schemas.FileChange) string {
	var patches []string
	for _, f := range files {
		if f.Patch == "" {
			continue
		}
		patches = append(patches, fmt.Sprintf("=== %s ===\n%s", f.Filename, f.Patch))
	}
	return strings.Join(patches, "\n\n")
}

// FilenameSummary renders the combined file list for prompt headers: a single
// name for one file, "first (+N more)" for several, empty for none.
func FilenameSummary(files []schemas.FileChange) string {
	switch len(files) {
	case 0:
		return ""
	case 1:
		return files[0].Filename
	default:
		return fmt.Sprintf("%s (+%d more)", files[0].Filename, len(files)-1)
	}
}
