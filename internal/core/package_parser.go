package core

import (
	"iter"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"forkerator/internal/types"
)

// aptVersionFieldCandidates are the comma-separated field positions that
// may hold the version in `apt list --installed` output. The number of
// suites listed before the version varies between packages.
var aptVersionFieldCandidates = []int{1, 2, 3}

// LocalRepositoryShortName is the suite apt lists for packages that no
// configured source provides, such as a .deb installed from a file.
const LocalRepositoryShortName = "now"

// Dotted runs past major.minor are kept so curl 7.68.0-1 compares as 7.68.0.
var leadingVersionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+(?:\.[0-9]+)*`)

type PackageParser struct{}

func NewPackageParser() PackageParser {
	return PackageParser{}
}

// Records yields the installed packages found in raw, in input order.
// The sequence may be ranged over more than once.
func (p PackageParser) Records(raw string, dist types.Distribution) iter.Seq[types.PackageRecord] {
	var parseLine func(string) (types.PackageRecord, bool)
	switch dist {
	case types.DistributionDebian:
		parseLine = parseAptLine
	case types.DistributionRedHat:
		parseLine = parseYumLine
	default:
		return func(func(types.PackageRecord) bool) {}
	}
	return func(yield func(types.PackageRecord) bool) {
		for _, line := range strings.Split(raw, "\n") {
			record, ok := parseLine(line)
			if !ok {
				if strings.TrimSpace(line) != "" {
					log.Debug().Str("line", line).Msg("skipping unparseable package line")
				}
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

// parseAptLine handles lines such as
//
//	zip/xenial,now 3.0-11 amd64 [installed]
//	chromium-codecs-ffmpeg-extra/xenial-updates,xenial-security,now 59.0.3071.109-0ubuntu0.16.04.1291 amd64 [installed,automatic]
//
// A line whose version cannot be located is rejected rather than being
// given the version of a neighbouring package.
func parseAptLine(line string) (types.PackageRecord, bool) {
	segments := strings.Split(line, "/")
	if len(segments) < 2 {
		return types.PackageRecord{}, false
	}
	name := strings.TrimSpace(segments[0])
	if name == "" {
		return types.PackageRecord{}, false
	}
	fields := strings.Split(segments[1], ",")
	version, ok := probeAptVersion(fields)
	if !ok {
		return parseLocalAptLine(name, fields[0])
	}
	return types.PackageRecord{
		Name:                name,
		Version:             version,
		RepositoryShortName: fields[0],
	}, true
}

// parseLocalAptLine handles packages listed only under the local suite:
//
//	mytool/now 1.0-1 amd64 [installed,local]
func parseLocalAptLine(name string, field string) (types.PackageRecord, bool) {
	tokens := strings.Fields(field)
	if len(tokens) < 2 || tokens[0] != LocalRepositoryShortName {
		return types.PackageRecord{}, false
	}
	version := LeadingVersion(tokens[1])
	if version == "" {
		return types.PackageRecord{}, false
	}
	return types.PackageRecord{
		Name:                name,
		Version:             version,
		RepositoryShortName: LocalRepositoryShortName,
	}, true
}

func probeAptVersion(fields []string) (string, bool) {
	for _, index := range aptVersionFieldCandidates {
		if index >= len(fields) {
			continue
		}
		tokens := strings.Fields(fields[index])
		if len(tokens) < 2 {
			continue
		}
		if match := LeadingVersion(tokens[1]); match != "" {
			return match, true
		}
	}
	return "", false
}

// parseYumLine handles lines such as
//
//	zlib-devel.x86_64      1.2.7-17.el7     @base
func parseYumLine(line string) (types.PackageRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return types.PackageRecord{}, false
	}
	_, shortName, found := strings.Cut(fields[2], "@")
	if !found {
		return types.PackageRecord{}, false
	}
	shortName, _, _ = strings.Cut(shortName, "@")
	return types.PackageRecord{
		Name:                fields[0],
		Version:             fields[1],
		RepositoryShortName: shortName,
	}, true
}

// LeadingVersion returns the dotted numeric prefix of value, such as 7.68.0
// for 7.68.0-1ubuntu2, or "" when value does not start with digits.digits.
func LeadingVersion(value string) string {
	return leadingVersionPattern.FindString(value)
}
