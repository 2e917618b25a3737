package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"forkerator/internal/adapters"
	"forkerator/internal/app"
	"forkerator/internal/types"
)

func newAppService(distribution string) app.Service {
	return app.NewService(app.ServiceOptions{
		Distribution: types.ParseDistribution(distribution),
		Commands:     listingCommandsFromConfig(),
	})
}

func listingCommandsFromConfig() map[types.Distribution]adapters.ListingCommands {
	return map[types.Distribution]adapters.ListingCommands{
		types.DistributionDebian: {
			Repositories: viper.GetString("commands.debian.repos"),
			Packages:     viper.GetString("commands.debian.packages"),
		},
		types.DistributionRedHat: {
			Repositories: viper.GetString("commands.redhat.repos"),
			Packages:     viper.GetString("commands.redhat.packages"),
		},
	}
}

func addDistributionFlag(cmd *cobra.Command, distribution *string) {
	cmd.Flags().StringVar(distribution, "distribution", "", "Force the distribution family (debian or redhat)")
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
