package app

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"forkerator/internal/policies"
	"forkerator/internal/types"
)

func (s Service) loadPolicy(upstreamPath string, approvalsPath string) (types.PolicyTables, error) {
	upstreamPath = strings.TrimSpace(upstreamPath)
	approvalsPath = strings.TrimSpace(approvalsPath)
	if upstreamPath == "" || approvalsPath == "" {
		return types.PolicyTables{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("upstream repos and approvals policy paths are required")
	}
	upstream, err := s.Policy.LoadUpstream(upstreamPath)
	if err != nil {
		return types.PolicyTables{}, err
	}
	approvals, err := s.Policy.LoadApprovals(approvalsPath)
	if err != nil {
		return types.PolicyTables{}, err
	}
	tables := types.NewPolicyTables(upstream, approvals)
	log.Debug().
		Int("upstream_repos", len(tables.UpstreamRepos)).
		Int("approved_forks", len(tables.ApprovedForks)).
		Msg("policy loaded")
	return tables, nil
}

// ValidatePolicy loads both policy documents and lints the approved forks
// for the requested distribution, or for the host's when none is given.
func (s Service) ValidatePolicy(req ValidatePolicyRequest) (ValidatePolicyResult, error) {
	dist, err := s.lintDistribution(req.Distribution)
	if err != nil {
		return ValidatePolicyResult{}, err
	}
	tables, err := s.loadPolicy(req.UpstreamReposPath, req.ApprovalsPath)
	if err != nil {
		return ValidatePolicyResult{}, err
	}
	return ValidatePolicyResult{
		UpstreamRepos: len(tables.UpstreamRepos),
		ApprovedForks: len(tables.ApprovedForks),
		Distribution:  dist,
		Warnings:      policies.LintApprovedForks(tables, dist),
	}, nil
}

func (s Service) lintDistribution(requested types.Distribution) (types.Distribution, error) {
	if requested != types.DistributionUnknown {
		if !requested.Supported() {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported distribution: %s", requested))
		}
		return requested, nil
	}
	platform, err := s.Platform.Detect()
	if err != nil {
		log.Warn().Err(err).Msg("distribution not detected, skipping distribution-specific policy checks")
		return types.DistributionUnknown, nil
	}
	return platform.Distribution, nil
}
