package types

import "strings"

type Distribution string

const (
	DistributionUnknown Distribution = ""
	DistributionDebian  Distribution = "debian"
	DistributionRedHat  Distribution = "redhat"
)

// Platform describes the host an audit runs on. Name is the os-release ID
// as reported by the host (ubuntu, centos, ...), Distribution the family
// used to select parsing rules.
type Platform struct {
	System       string
	Name         string
	Version      string
	Distribution Distribution
}

func (d Distribution) Supported() bool {
	return d == DistributionDebian || d == DistributionRedHat
}

// ParseDistribution normalises user input such as " Debian " to a
// Distribution. Unrecognised values are returned as given, lowercased.
func ParseDistribution(value string) Distribution {
	return Distribution(strings.ToLower(strings.TrimSpace(value)))
}
