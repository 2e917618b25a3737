package adapters

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"forkerator/internal/ports"
	"forkerator/internal/types"
)

// ListingCommands are shell command lines run through `sh -c`.
type ListingCommands struct {
	Repositories string
	Packages     string
}

func DefaultListingCommands() map[types.Distribution]ListingCommands {
	return map[types.Distribution]ListingCommands{
		types.DistributionDebian: {
			Repositories: `cat /etc/apt/sources.list | sed -e "/^#/d" -e "/^$/d"`,
			Packages:     "apt list --installed",
		},
		types.DistributionRedHat: {
			Repositories: "yum -v repolist",
			Packages:     "yum list installed",
		},
	}
}

type CommandListingAdapter struct {
	Shell    string
	Commands map[types.Distribution]ListingCommands
}

func NewCommandListingAdapter(commands map[types.Distribution]ListingCommands) CommandListingAdapter {
	merged := DefaultListingCommands()
	for dist, override := range commands {
		current := merged[dist]
		if strings.TrimSpace(override.Repositories) != "" {
			current.Repositories = override.Repositories
		}
		if strings.TrimSpace(override.Packages) != "" {
			current.Packages = override.Packages
		}
		merged[dist] = current
	}
	return CommandListingAdapter{Shell: "/bin/sh", Commands: merged}
}

func (a CommandListingAdapter) RepositoryListing(ctx context.Context, dist types.Distribution) (string, error) {
	commands, err := a.commandsFor(dist)
	if err != nil {
		return "", err
	}
	return a.run(ctx, commands.Repositories)
}

func (a CommandListingAdapter) PackageListing(ctx context.Context, dist types.Distribution) (string, error) {
	commands, err := a.commandsFor(dist)
	if err != nil {
		return "", err
	}
	return a.run(ctx, commands.Packages)
}

func (a CommandListingAdapter) commandsFor(dist types.Distribution) (ListingCommands, error) {
	commands, ok := a.Commands[dist]
	if !ok {
		return ListingCommands{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no listing commands for distribution: %s", dist))
	}
	return commands, nil
}

// run returns the command's stdout even when it exits non-zero; parsing
// treats missing output as nothing listed.
func (a CommandListingAdapter) run(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, a.Shell, "-c", command)
	output, err := cmd.Output()
	if err != nil {
		event := log.Warn().Err(err).Str("command", command)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			event = event.Str("stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		event.Msg("listing command failed")
	}
	return string(output), nil
}

var _ ports.ListingPort = CommandListingAdapter{}
