package types

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"
)

type UpstreamPolicy struct {
	UpstreamRepos []string `yaml:"upstream_repos"`
}

type ApprovalsPolicy struct {
	ApprovedForks map[string]ApprovedFork `yaml:"approved_forks"`
}

type ApprovedFork struct {
	Versions ForkVersions `yaml:"version"`
	Category string       `yaml:"category"`
}

// ForkVersions accepts either a single version string or a list of them.
type ForkVersions []string

func (v *ForkVersions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = nil
			return nil
		}
		*v = ForkVersions{node.Value}
		return nil
	case yaml.SequenceNode:
		values := make(ForkVersions, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("approved fork version entries must be scalars")
			}
			values = append(values, item.Value)
		}
		*v = values
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("approved fork version must be a string or a list of strings")
	}
}

func (v ForkVersions) Contains(version string) bool {
	for _, candidate := range v {
		if candidate == version {
			return true
		}
	}
	return false
}

// PolicyTables holds both policy documents after loading.
type PolicyTables struct {
	UpstreamRepos map[string]struct{}
	ApprovedForks map[string]ApprovedFork
}

func NewPolicyTables(upstream UpstreamPolicy, approvals ApprovalsPolicy) PolicyTables {
	tables := PolicyTables{
		UpstreamRepos: make(map[string]struct{}, len(upstream.UpstreamRepos)),
		ApprovedForks: approvals.ApprovedForks,
	}
	for _, repo := range upstream.UpstreamRepos {
		tables.UpstreamRepos[repo] = struct{}{}
	}
	if tables.ApprovedForks == nil {
		tables.ApprovedForks = map[string]ApprovedFork{}
	}
	return tables
}

func (p PolicyTables) IsUpstream(repository string) bool {
	_, ok := p.UpstreamRepos[repository]
	return ok
}
