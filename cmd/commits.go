// -- cmd/commits.go --
package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/observability"
)

var commitsFlags struct {
	owner     string
	repo      string
	branch    string
	sha       string
	recent    int
	since     string
	until     string
	fileTypes []string
}

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "Fetch commits and print their analysis-ready units.",
	Long: `Commits fetches commit details from GitHub in one of three selection
modes (recent N, specific SHA, date range), filters files by suffix, and
prints the per-commit outcomes as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		sel, err := buildSelection()
		if err != nil {
			return err
		}

		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}

		ref := schemas.RepoRef{Owner: commitsFlags.owner, Repo: commitsFlags.repo, Branch: commitsFlags.branch}
		result, err := svc.FetchCommits(cmd.Context(), ref, sel, commitsFlags.fileTypes)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// buildSelection derives the selection mode from the flag combination:
// --sha wins, then --since/--until, then --recent.
func buildSelection() (schemas.CommitSelection, error) {
	if commitsFlags.sha != "" {
		return schemas.CommitSelection{Mode: schemas.SelectSHA, SHA: commitsFlags.sha}, nil
	}

	if commitsFlags.since != "" || commitsFlags.until != "" {
		if commitsFlags.since == "" || commitsFlags.until == "" {
			return schemas.CommitSelection{}, fmt.Errorf("--since and --until must be given together")
		}
		since, err := time.ParseInLocation("2006-01-02", commitsFlags.since, time.Local)
		if err != nil {
			return schemas.CommitSelection{}, fmt.Errorf("invalid --since date: %w", err)
		}
		until, err := time.ParseInLocation("2006-01-02", commitsFlags.until, time.Local)
		if err != nil {
			return schemas.CommitSelection{}, fmt.Errorf("invalid --until date: %w", err)
		}
		// Inclusive range: midnight of the start date to the last instant of
		// the end date, in the local timezone.
		until = until.Add(24*time.Hour - time.Second)
		return schemas.CommitSelection{Mode: schemas.SelectRange, Since: since, Until: until, PerPage: commitsFlags.recent}, nil
	}

	return schemas.CommitSelection{Mode: schemas.SelectRecent, PerPage: commitsFlags.recent}, nil
}

func init() {
	commitsCmd.Flags().StringVar(&commitsFlags.owner, "owner", "", "repository owner")
	commitsCmd.Flags().StringVar(&commitsFlags.repo, "repo", "", "repository name")
	commitsCmd.Flags().StringVar(&commitsFlags.branch, "branch", "", "branch to list from")
	commitsCmd.Flags().StringVar(&commitsFlags.sha, "sha", "", "fetch exactly this commit")
	commitsCmd.Flags().IntVar(&commitsFlags.recent, "recent", 10, "number of recent commits to fetch")
	commitsCmd.Flags().StringVar(&commitsFlags.since, "since", "", "start date (YYYY-MM-DD, inclusive)")
	commitsCmd.Flags().StringVar(&commitsFlags.until, "until", "", "end date (YYYY-MM-DD, inclusive)")
	commitsCmd.Flags().StringSliceVar(&commitsFlags.fileTypes, "file-types", nil, "keep only files with these suffixes, e.g. .go,.py")
	_ = commitsCmd.MarkFlagRequired("owner")
	_ = commitsCmd.MarkFlagRequired("repo")

	rootCmd.AddCommand(commitsCmd)
}
