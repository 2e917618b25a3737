package types

// RepositoryMapping maps a package manager's repository short-name to the
// canonical repository identifier, usually a URL.
type RepositoryMapping map[string]string

// PackageRecord is one installed package as listed by the package manager,
// before its repository short-name has been resolved.
type PackageRecord struct {
	Name                string
	Version             string
	RepositoryShortName string
}

type PackageDetail struct {
	Version    string `yaml:"version" json:"version"`
	Repository string `yaml:"repository" json:"repository"`
}

// PackageDetails is the normalized package model keyed by package name.
type PackageDetails map[string]PackageDetail
