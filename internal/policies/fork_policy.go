package policies

import (
	"fmt"
	"sort"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"

	"forkerator/internal/core"
	"forkerator/internal/types"
)

type ForkPolicy struct {
	Tables types.PolicyTables
}

func NewForkPolicy(tables types.PolicyTables) ForkPolicy {
	return ForkPolicy{Tables: tables}
}

// Filter returns the packages that are neither installed from an upstream
// repository nor an approved fork at the installed version. The input is
// not modified.
func (p ForkPolicy) Filter(details types.PackageDetails) types.PackageDetails {
	residual := make(types.PackageDetails, len(details))
	for name, detail := range details {
		residual[name] = detail
	}
	for name, detail := range details {
		if p.Tables.IsUpstream(detail.Repository) {
			delete(residual, name)
		}
		if p.IsApprovedFork(name, detail.Version) {
			delete(residual, name)
		}
	}
	return residual
}

// IsApprovedFork reports whether version is listed for name. An entry
// without versions approves nothing.
func (p ForkPolicy) IsApprovedFork(name string, version string) bool {
	fork, ok := p.Tables.ApprovedForks[name]
	if !ok {
		return false
	}
	return fork.Versions.Contains(version)
}

func (p ForkPolicy) Category(name string) string {
	fork, ok := p.Tables.ApprovedForks[name]
	if !ok || strings.TrimSpace(fork.Category) == "" {
		return types.UnknownCategory
	}
	return fork.Category
}

// LintApprovedForks returns one warning per approved fork entry that can
// never match on the given distribution.
func LintApprovedForks(tables types.PolicyTables, dist types.Distribution) []string {
	var warnings []string
	names := make([]string, 0, len(tables.ApprovedForks))
	for name := range tables.ApprovedForks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fork := tables.ApprovedForks[name]
		if len(fork.Versions) == 0 {
			warnings = append(warnings, fmt.Sprintf("approved fork %s lists no versions", name))
			continue
		}
		if dist != types.DistributionDebian {
			continue
		}
		for _, version := range fork.Versions {
			if _, err := debversion.NewVersion(version); err != nil {
				warnings = append(warnings, fmt.Sprintf("approved fork %s version %q is not a valid Debian version", name, version))
				continue
			}
			if core.LeadingVersion(version) != version {
				warnings = append(warnings, fmt.Sprintf("approved fork %s version %q never matches, apt versions are compared by their leading numeric part", name, version))
			}
		}
	}
	return warnings
}
