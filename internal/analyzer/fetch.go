// File: internal/analyzer/fetch.go
package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/commits"
)

// FetchCommits resolves the selection to a SHA list and drives the
// fetch/normalize/filter/combine sequence per commit. One commit's failure
// never aborts the batch: every requested SHA gets an outcome, in request
// order, and the aggregate counts are deterministic regardless of fetch
// interleaving.
func (s *Service) FetchCommits(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection, suffixes []string) (*schemas.BatchFetchResult, error) {
	shas, err := s.resolveSelection(ctx, ref, sel)
	if err != nil {
		return nil, err
	}

	outcomes := make([]schemas.CommitOutcome, len(shas))

	// Per-commit fetches are independent; run them with bounded parallelism.
	// Each goroutine owns exactly one slice slot, so no extra locking.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.GitHub.FetchConcurrency)

	for i, sha := range shas {
		i, sha := i, sha
		g.Go(func() error {
			outcomes[i] = s.fetchOne(gctx, ref, sha, suffixes)
			return nil
		})
	}
	// Workers never return errors; failures are recorded per outcome.
	_ = g.Wait()

	result := &schemas.BatchFetchResult{Total: len(shas), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Error != "" {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	s.logger.Info("Batch fetch complete",
		zap.String("repo", ref.Owner+"/"+ref.Repo),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// FetchCommitDetail fetches and normalizes one commit.
func (s *Service) FetchCommitDetail(ctx context.Context, ref schemas.RepoRef, sha string) (*schemas.CommitDetail, error) {
	payload, err := s.provider.GetCommit(ctx, ref, sha)
	if err != nil {
		return nil, err
	}
	return commits.NormalizeDetail(payload)
}

// FetchRepository fetches and normalizes repository metadata.
func (s *Service) FetchRepository(ctx context.Context, ref schemas.RepoRef) (*schemas.RepositoryInfo, error) {
	payload, err := s.provider.GetRepository(ctx, ref)
	if err != nil {
		return nil, err
	}
	info := commits.NormalizeRepository(payload)
	return &info, nil
}

// resolveSelection turns the caller's selection mode into the SHA list to
// fetch. Specific-SHA mode skips the listing call entirely.
func (s *Service) resolveSelection(ctx context.Context, ref schemas.RepoRef, sel schemas.CommitSelection) ([]string, error) {
	if sel.Mode == schemas.SelectSHA {
		if sel.SHA == "" {
			return nil, fmt.Errorf("selection mode %q requires a commit sha", sel.Mode)
		}
		return []string{sel.SHA}, nil
	}

	payloads, err := s.provider.ListCommits(ctx, ref, sel)
	if err != nil {
		return nil, err
	}

	shas := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		rec, err := commits.NormalizeCommit(payload)
		if err != nil {
			// A summary without a usable sha cannot be fetched in detail;
			// skip it rather than failing the listing.
			s.logger.Warn("Skipping unusable commit summary", zap.Error(err))
			continue
		}
		shas = append(shas, rec.SHA)
	}
	return shas, nil
}

// fetchOne produces the outcome for a single commit: an analysis-ready unit,
// a no-content marker, or the error text that felled it.
func (s *Service) fetchOne(ctx context.Context, ref schemas.RepoRef, sha string, suffixes []string) schemas.CommitOutcome {
	payload, err := s.provider.GetCommit(ctx, ref, sha)
	if err != nil {
		s.logger.Warn("Commit fetch failed", zap.String("sha", sha), zap.Error(err))
		return schemas.CommitOutcome{SHA: sha, Error: err.Error()}
	}

	detail, err := commits.NormalizeDetail(payload)
	if err != nil {
		s.logger.Warn("Commit normalization failed", zap.String("sha", sha), zap.Error(err))
		return schemas.CommitOutcome{SHA: sha, Error: err.Error()}
	}

	filtered := commits.FilterBySuffix(detail.Files, suffixes)
	diff := commits.CombineDiffs(filtered)
	if len(filtered) == 0 || diff == "" {
		return schemas.CommitOutcome{SHA: sha, NoContent: true}
	}

	return schemas.CommitOutcome{
		SHA: sha,
		Unit: &schemas.CommitUnit{
			SHA:           detail.SHA,
			Message:       detail.Message,
			Author:        detail.Author.Name,
			Date:          detail.Author.Date,
			FilesAnalyzed: len(filtered),
			Files:         filtered,
			Diff:          diff,
		},
	}
}
