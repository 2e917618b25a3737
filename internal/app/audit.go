package app

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"forkerator/internal/core"
	"forkerator/internal/policies"
	"forkerator/internal/types"
)

// Audit lists installed packages and repositories on the host, resolves
// each package to its repository and reports the packages that policy
// does not account for. Platform and policy problems abort before any
// listing command runs.
func (s Service) Audit(ctx context.Context, req AuditRequest) (AuditResult, error) {
	platform, err := s.Platform.Detect()
	if err != nil {
		return AuditResult{}, err
	}
	tables, err := s.loadPolicy(req.UpstreamReposPath, req.ApprovalsPath)
	if err != nil {
		return AuditResult{}, err
	}
	for _, warning := range policies.LintApprovedForks(tables, platform.Distribution) {
		log.Warn().Msg(warning)
	}

	mapping, err := s.resolveRepositories(ctx, platform.Distribution)
	if err != nil {
		return AuditResult{}, err
	}
	packageListing, err := s.Listing.PackageListing(ctx, platform.Distribution)
	if err != nil {
		return AuditResult{}, err
	}
	records := core.NewPackageParser().Records(packageListing, platform.Distribution)
	reconciled := core.Reconcile(ctx, records, mapping)

	policy := policies.NewForkPolicy(tables)
	residual := policy.Filter(reconciled.Details)

	runID := s.RunID()
	finishedAt := s.Clock()
	hostname, err := s.Hostname()
	if err != nil {
		log.Warn().Err(err).Msg("unable to read hostname")
		hostname = "unknown"
	}
	options := types.ReportOptions{
		Category:       req.Category,
		SortByCategory: req.Category && req.SortByCategory,
		ShowUnresolved: req.ShowUnresolved,
	}
	report := types.AuditReport{
		Rows:       buildReportRows(residual, policy, options),
		Unresolved: reconciled.Unresolved,
		Options:    options,
		Run: types.RunInfo{
			ID:           runID,
			Hostname:     hostname,
			Distribution: platform.Name,
			FinishedAt:   finishedAt,
		},
	}
	if err := s.Report.WriteAudit(report); err != nil {
		return AuditResult{}, err
	}

	summary := types.AuditSummary{
		Distribution: platform.Distribution,
		Repositories: len(mapping),
		Installed:    len(reconciled.Details),
		Unresolved:   len(reconciled.Unresolved),
		Flagged:      len(residual),
		FinishedAt:   finishedAt,
	}
	if err := s.Metrics.WriteSummary(req.MetricsFile, summary); err != nil {
		return AuditResult{}, err
	}
	log.Info().
		Str("run_id", runID).
		Int("repositories", summary.Repositories).
		Int("installed", summary.Installed).
		Int("unresolved", summary.Unresolved).
		Int("flagged", summary.Flagged).
		Msg("audit complete")

	return AuditResult{
		RunID:    runID,
		Platform: platform,
		Residual: residual,
		Summary:  summary,
	}, nil
}

// Repos resolves and prints the repository mapping for the host.
func (s Service) Repos(ctx context.Context) (ReposResult, error) {
	platform, err := s.Platform.Detect()
	if err != nil {
		return ReposResult{}, err
	}
	mapping, err := s.resolveRepositories(ctx, platform.Distribution)
	if err != nil {
		return ReposResult{}, err
	}
	if err := s.Report.WriteRepositories(mapping); err != nil {
		return ReposResult{}, err
	}
	return ReposResult{Platform: platform, Mapping: mapping}, nil
}

func (s Service) resolveRepositories(ctx context.Context, dist types.Distribution) (types.RepositoryMapping, error) {
	listing, err := s.Listing.RepositoryListing(ctx, dist)
	if err != nil {
		return nil, err
	}
	return core.NewRepoResolver().Resolve(listing, dist), nil
}

// buildReportRows orders rows by package name, or by category then package
// name when sorting by category.
func buildReportRows(residual types.PackageDetails, policy policies.ForkPolicy, opts types.ReportOptions) []types.ReportRow {
	rows := make([]types.ReportRow, 0, len(residual))
	for name, detail := range residual {
		row := types.ReportRow{
			Package:    name,
			Version:    detail.Version,
			Repository: detail.Repository,
		}
		if opts.Category {
			row.Category = policy.Category(name)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if opts.SortByCategory && rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Package < rows[j].Package
	})
	return rows
}
