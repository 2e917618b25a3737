package core

import (
	"strings"

	"github.com/rs/zerolog/log"

	"forkerator/internal/types"
)

const (
	repoIDLabel      = "Repo-id"
	repoBaseURLLabel = "Repo-baseurl"

	// AnacondaRepository is reported by yum for packages installed from the
	// OS installation media; it never appears in the repository listing.
	AnacondaRepository = "anaconda"
)

type RepoResolver struct{}

func NewRepoResolver() RepoResolver {
	return RepoResolver{}
}

// Resolve builds the short-name to repository mapping from the raw output
// of the distribution's repository listing. The first entry seen for a
// short-name wins. Lines that do not fit the expected shape are skipped.
func (r RepoResolver) Resolve(raw string, dist types.Distribution) types.RepositoryMapping {
	mapping := types.RepositoryMapping{}
	switch dist {
	case types.DistributionDebian:
		resolveAptSources(raw, mapping)
	case types.DistributionRedHat:
		mapping[AnacondaRepository] = AnacondaRepository
		resolveYumRepolist(raw, mapping)
	}
	log.Debug().
		Str("distribution", string(dist)).
		Int("repositories", len(mapping)).
		Msg("repository mapping resolved")
	return mapping
}

// resolveAptSources reads sources.list style lines:
//
//	deb http://us.archive.ubuntu.com/ubuntu/ xenial-updates main restricted
//
// The suite is the short-name apt reports for installed packages. A suite
// served by several mirrors or components keeps only its first URL.
func resolveAptSources(raw string, mapping types.RepositoryMapping) {
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		insertFirst(mapping, fields[2], fields[1])
	}
}

// resolveYumRepolist reads the labelled blocks of `yum -v repolist`:
//
//	Repo-id      : updates/7/x86_64
//	Repo-baseurl : http://centos.mirror.example/7/updates/x86_64/ (9 more)
func resolveYumRepolist(raw string, mapping types.RepositoryMapping) {
	repoID := ""
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.Contains(line, repoIDLabel):
			fields := strings.Fields(line)
			if len(fields) < 3 {
				repoID = ""
				continue
			}
			repoID, _, _ = strings.Cut(fields[len(fields)-1], "/")
		case strings.Contains(line, repoBaseURLLabel):
			fields := strings.Fields(line)
			if repoID == "" || len(fields) < 3 {
				continue
			}
			insertFirst(mapping, repoID, strings.TrimSpace(fields[2]))
		}
	}
}

func insertFirst(mapping types.RepositoryMapping, shortName string, repository string) {
	if shortName == "" || repository == "" {
		return
	}
	if _, exists := mapping[shortName]; exists {
		return
	}
	mapping[shortName] = repository
}
