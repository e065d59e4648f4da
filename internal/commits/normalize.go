// File: internal/commits/normalize.go
package commits

import (
	"fmt"
	"time"

	"github.com/commitlens/commitlens-cli/api/schemas"
)

// DataShapeError reports a provider payload that is structurally unusable:
// a required field is absent in a way that makes the record meaningless.
// All other absences degrade to zero values instead.
type DataShapeError struct {
	Field string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("provider payload missing required field %q", e.Field)
}

// NormalizeCommit converts a raw provider commit payload into the canonical
// CommitRecord. Only a missing sha is fatal; a present but unparsable date is
// reported as an error so callers can decide how to surface it.
func NormalizeCommit(payload schemas.RawPayload) (schemas.CommitRecord, error) {
	sha := str(payload, "sha")
	if sha == "" {
		return schemas.CommitRecord{}, &DataShapeError{Field: "sha"}
	}

	commit := obj(payload, "commit")

	author, err := signature(obj(commit, "author"))
	if err != nil {
		return schemas.CommitRecord{}, fmt.Errorf("commit %s: author: %w", sha, err)
	}
	committer, err := signature(obj(commit, "committer"))
	if err != nil {
		return schemas.CommitRecord{}, fmt.Errorf("commit %s: committer: %w", sha, err)
	}

	rec := schemas.CommitRecord{
		SHA:          sha,
		Author:       author,
		Committer:    committer,
		Message:      str(commit, "message"),
		CommentCount: num(commit, "comment_count"),
		HTMLURL:      str(payload, "html_url"),
	}

	if stats := obj(payload, "stats"); stats != nil {
		rec.Stats = &schemas.CommitStats{
			Total:     num(stats, "total"),
			Additions: num(stats, "additions"),
			Deletions: num(stats, "deletions"),
		}
	}
	if user := obj(payload, "author"); user != nil {
		rec.User = &schemas.GitHubUser{
			Login:     str(user, "login"),
			ID:        int64(num(user, "id")),
			AvatarURL: str(user, "avatar_url"),
			HTMLURL:   str(user, "html_url"),
		}
	}
	return rec, nil
}

// NormalizeDetail converts a raw commit-detail payload, including its files
// sequence, into a CommitDetail. File order is preserved as received.
func NormalizeDetail(payload schemas.RawPayload) (*schemas.CommitDetail, error) {
	rec, err := NormalizeCommit(payload)
	if err != nil {
		return nil, err
	}

	detail := &schemas.CommitDetail{CommitRecord: rec}
	rawFiles, _ := payload["files"].([]any)
	for _, rf := range rawFiles {
		fm, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		detail.Files = append(detail.Files, normalizeFile(fm))
	}
	return detail, nil
}

// NormalizeRepository converts a raw repository payload into RepositoryInfo.
// Every field is optional; absences become zero values.
func NormalizeRepository(payload schemas.RawPayload) schemas.RepositoryInfo {
	return schemas.RepositoryInfo{
		Name:          str(payload, "name"),
		FullName:      str(payload, "full_name"),
		Description:   str(payload, "description"),
		Language:      str(payload, "language"),
		Stars:         num(payload, "stargazers_count"),
		Forks:         num(payload, "forks_count"),
		Size:          num(payload, "size"),
		DefaultBranch: str(payload, "default_branch"),
		CreatedAt:     str(payload, "created_at"),
		UpdatedAt:     str(payload, "updated_at"),
	}
}

func normalizeFile(fm map[string]any) schemas.FileChange {
	return schemas.FileChange{
		SHA:       str(fm, "sha"),
		Filename:  str(fm, "filename"),
		Status:    str(fm, "status"),
		Additions: num(fm, "additions"),
		Deletions: num(fm, "deletions"),
		Changes:   num(fm, "changes"),
		Patch:     str(fm, "patch"),
	}
}

func signature(m map[string]any) (schemas.CommitSignature, error) {
	sig := schemas.CommitSignature{
		Name:  str(m, "name"),
		Email: str(m, "email"),
	}
	if raw := str(m, "date"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return sig, fmt.Errorf("unparsable date %q: %w", raw, err)
		}
		sig.Date = ts
	}
	return sig, nil
}

// str reads a string field, defaulting to "" for absent or non-string values.
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// num reads a numeric field. encoding/json decodes numbers as float64, but
// hand-built payloads in tests may use int.
func num(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// obj reads a nested object field, returning nil when absent.
func obj(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	o, _ := m[key].(map[string]any)
	return o
}
