package app

import "forkerator/internal/types"

type AuditRequest struct {
	UpstreamReposPath string
	ApprovalsPath     string
	Category          bool
	SortByCategory    bool
	ShowUnresolved    bool
	MetricsFile       string
}

type AuditResult struct {
	RunID    string
	Platform types.Platform
	Residual types.PackageDetails
	Summary  types.AuditSummary
}

type ReposResult struct {
	Platform types.Platform
	Mapping  types.RepositoryMapping
}

type ValidatePolicyRequest struct {
	UpstreamReposPath string
	ApprovalsPath     string
	Distribution      types.Distribution
}

type ValidatePolicyResult struct {
	UpstreamRepos int
	ApprovedForks int
	Distribution  types.Distribution
	Warnings      []string
}
