package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"forkerator/internal/app"
)

type auditOptions struct {
	UpstreamRepos  string
	Approvals      string
	Category       bool
	SortByCategory bool
	ShowUnresolved bool
	MetricsFile    string
	Distribution   string
}

func newAuditCommand() *cobra.Command {
	opts := auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List packages from unconfigured upstream repos or unapproved forks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd.Context(), cmd, opts)
		},
	}
	addPolicyFlags(cmd, &opts.UpstreamRepos, &opts.Approvals)
	cmd.Flags().BoolVarP(&opts.Category, "category", "c", false, "Include category output")
	cmd.Flags().BoolVar(&opts.SortByCategory, "sort-by-category", false, "Sort by category instead of package (requires --category)")
	cmd.Flags().BoolVar(&opts.ShowUnresolved, "show-unresolved", false, "List packages whose repository could not be resolved")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write a Prometheus textfile with audit counts")
	addDistributionFlag(cmd, &opts.Distribution)
	_ = viper.BindPFlag("category", cmd.Flags().Lookup("category"))
	_ = viper.BindPFlag("sort_by_category", cmd.Flags().Lookup("sort-by-category"))
	_ = viper.BindPFlag("show_unresolved", cmd.Flags().Lookup("show-unresolved"))
	_ = viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))
	return cmd
}

func addPolicyFlags(cmd *cobra.Command, upstream *string, approvals *string) {
	cmd.Flags().StringVar(upstream, "upstream-repos", "config.yaml", "Policy file listing upstream_repos")
	cmd.Flags().StringVar(approvals, "approvals", "approvals.yaml", "Policy file listing approved_forks")
	_ = viper.BindPFlag("upstream_repos_file", cmd.Flags().Lookup("upstream-repos"))
	_ = viper.BindPFlag("approvals_file", cmd.Flags().Lookup("approvals"))
}

func runAudit(ctx context.Context, cmd *cobra.Command, opts auditOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	service := newAppService(resolveString(cmd, opts.Distribution, "distribution", "distribution"))
	_, err := service.Audit(ctx, app.AuditRequest{
		UpstreamReposPath: resolveString(cmd, opts.UpstreamRepos, "upstream_repos_file", "upstream-repos"),
		ApprovalsPath:     resolveString(cmd, opts.Approvals, "approvals_file", "approvals"),
		Category:          resolveBool(cmd, opts.Category, "category", "category"),
		SortByCategory:    resolveBool(cmd, opts.SortByCategory, "sort_by_category", "sort-by-category"),
		ShowUnresolved:    resolveBool(cmd, opts.ShowUnresolved, "show_unresolved", "show-unresolved"),
		MetricsFile:       resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
	})
	return err
}
