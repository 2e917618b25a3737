package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"forkerator/internal/app"
	"forkerator/internal/types"
)

type validatePolicyOptions struct {
	UpstreamRepos string
	Approvals     string
	Distribution  string
}

func newValidatePolicyCommand() *cobra.Command {
	opts := validatePolicyOptions{}
	cmd := &cobra.Command{
		Use:   "validate-policy",
		Short: "Validate the upstream repos and approved forks policy files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidatePolicy(cmd, opts)
		},
	}
	addPolicyFlags(cmd, &opts.UpstreamRepos, &opts.Approvals)
	addDistributionFlag(cmd, &opts.Distribution)
	return cmd
}

func runValidatePolicy(cmd *cobra.Command, opts validatePolicyOptions) error {
	distribution := resolveString(cmd, opts.Distribution, "distribution", "distribution")
	service := newAppService(distribution)
	result, err := service.ValidatePolicy(app.ValidatePolicyRequest{
		UpstreamReposPath: resolveString(cmd, opts.UpstreamRepos, "upstream_repos_file", "upstream-repos"),
		ApprovalsPath:     resolveString(cmd, opts.Approvals, "approvals_file", "approvals"),
		Distribution:      types.ParseDistribution(distribution),
	})
	if err != nil {
		return err
	}
	fmt.Printf("upstream repos: %d\n", result.UpstreamRepos)
	fmt.Printf("approved forks: %d\n", result.ApprovedForks)
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	return nil
}
