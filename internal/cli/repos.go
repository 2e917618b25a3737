package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type reposOptions struct {
	Distribution string
}

func newReposCommand() *cobra.Command {
	opts := reposOptions{}
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Show the repository short-name to URL mapping for this host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepos(cmd.Context(), cmd, opts)
		},
	}
	addDistributionFlag(cmd, &opts.Distribution)
	return cmd
}

func runRepos(ctx context.Context, cmd *cobra.Command, opts reposOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	service := newAppService(resolveString(cmd, opts.Distribution, "distribution", "distribution"))
	_, err := service.Repos(ctx)
	return err
}
