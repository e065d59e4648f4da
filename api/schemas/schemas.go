// -- api/schemas/schemas.go --
package schemas

import (
	"strings"
	"time"
)

// Category identifies one of the external-system integration domains the
// signature detector recognizes inside a diff. The literals double as the
// canonical pattern names used in retrieval synonym tables.
type Category string

const (
	CategoryHR        Category = "hr-api"
	CategoryPayment   Category = "payment"
	CategorySupport   Category = "support"
	CategoryInventory Category = "inventory"
	CategoryApproval  Category = "approval"
)

// AnalysisType names one axis of review the caller can request.
type AnalysisType string

const (
	AnalysisCodeQuality  AnalysisType = "code_quality"
	AnalysisSecurity     AnalysisType = "security"
	AnalysisPerformance  AnalysisType = "performance"
	AnalysisBugDetection AnalysisType = "bug_detection"
	AnalysisRefactoring  AnalysisType = "refactoring"
)

// AnalysisMode selects which prompt strategy the assembler uses. The two modes
// are mutually exclusive: general review may carry retrieved knowledge, the
// critical-issue triage never does.
type AnalysisMode string

const (
	ModeGeneral  AnalysisMode = "general"
	ModeCritical AnalysisMode = "critical"
)

// RepoRef addresses a repository on the hosting provider. Token is optional;
// without it the provider applies its anonymous rate limits.
type RepoRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"`
	Token  string `json:"token,omitempty"`
}

// CommitSignature is the author or committer identity attached to a commit.
type CommitSignature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitStats aggregates line counts across a whole commit.
type CommitStats struct {
	Total     int `json:"total"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// GitHubUser is the reporting user account associated with a commit, distinct
// from the git-level author signature.
type GitHubUser struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// CommitRecord is the canonical, provider-independent shape of one commit
// summary. It is immutable once built by the normalizer.
type CommitRecord struct {
	SHA          string          `json:"sha"`
	Author       CommitSignature `json:"author"`
	Committer    CommitSignature `json:"committer"`
	Message      string          `json:"message"`
	CommentCount int             `json:"comment_count"`
	Stats        *CommitStats    `json:"stats,omitempty"`
	User         *GitHubUser     `json:"user,omitempty"`
	HTMLURL      string          `json:"html_url,omitempty"`
}

// Subject returns the first line of the commit message.
func (c CommitRecord) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// FileChange is one file entry inside a commit. Patch is empty for binary
// files and content-free changes such as pure renames; callers must treat an
// empty patch as "no textual diff", not as an empty diff.
type FileChange struct {
	SHA       string `json:"sha,omitempty"`
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// CommitDetail is a CommitRecord plus the ordered per-file changes the
// provider reported for it.
type CommitDetail struct {
	CommitRecord
	Files []FileChange `json:"files"`
}

// RepositoryInfo is the canonical shape of a repository metadata lookup.
type RepositoryInfo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	Language      string `json:"language,omitempty"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	Size          int    `json:"size"`
	DefaultBranch string `json:"default_branch"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// AnalysisRequest bundles the caller-supplied parameters for one analysis
// call. It lives only for the duration of that call.
type AnalysisRequest struct {
	Diff          string         `json:"code_diff"`
	Filename      string         `json:"filename"`
	CommitMessage string         `json:"commit_message"`
	AnalysisTypes []AnalysisType `json:"analysis_types"`
	Mode          AnalysisMode   `json:"mode"`
	Provider      string         `json:"provider,omitempty"`
	Model         string         `json:"model,omitempty"`
}

// KnowledgeDocument is one ranked hit from the knowledge index. Documents are
// discarded after prompt assembly and never persisted.
type KnowledgeDocument struct {
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Caption  string  `json:"caption,omitempty"`
	Score    float64 `json:"score"`
}

// AnalysisResult is the terminal object handed back to the caller. Exactly
// one of Result or Error is populated. NoContent distinguishes "nothing to
// analyze" from a true failure so callers can render a neutral message.
type AnalysisResult struct {
	Success   bool   `json:"success"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	NoContent bool   `json:"no_content,omitempty"`
}

// SelectionMode tells the fetch orchestrator how the caller picked commits.
type SelectionMode string

const (
	SelectRecent SelectionMode = "recent"
	SelectSHA    SelectionMode = "sha"
	SelectRange  SelectionMode = "range"
)

// CommitSelection carries the parameters of one of the three selection modes.
// Since/Until are passed to the provider as given; the orchestrator does not
// reinterpret timezones.
type CommitSelection struct {
	Mode    SelectionMode `json:"mode"`
	PerPage int           `json:"per_page,omitempty"`
	Page    int           `json:"page,omitempty"`
	SHA     string        `json:"sha,omitempty"`
	Since   time.Time     `json:"since,omitempty"`
	Until   time.Time     `json:"until,omitempty"`
}

// CommitUnit is the analysis-ready package the orchestrator produces for one
// successfully fetched commit: normalized metadata plus the filtered files and
// their combined diff.
type CommitUnit struct {
	SHA           string       `json:"commit_sha"`
	Message       string       `json:"commit_message"`
	Author        string       `json:"author"`
	Date          time.Time    `json:"date"`
	FilesAnalyzed int          `json:"files_analyzed"`
	Files         []FileChange `json:"files"`
	Diff          string       `json:"diff"`
}

// CommitOutcome records the fate of one commit inside a batch fetch. Exactly
// one of Unit or Error is populated unless the commit had nothing to analyze
// after filtering, in which case both are empty and NoContent is set.
type CommitOutcome struct {
	SHA       string      `json:"commit_sha"`
	Unit      *CommitUnit `json:"unit,omitempty"`
	NoContent bool        `json:"no_content,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// BatchFetchResult aggregates a multi-commit fetch. Every requested SHA
// appears in Outcomes, in request order, regardless of individual failures.
type BatchFetchResult struct {
	Total     int             `json:"total_commits"`
	Succeeded int             `json:"analyzed_commits"`
	Failed    int             `json:"failed_commits"`
	Outcomes  []CommitOutcome `json:"results"`
}
