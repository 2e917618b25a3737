package core

import (
	"context"
	"iter"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"forkerator/internal/types"
)

type ReconcileResult struct {
	Details    types.PackageDetails
	Unresolved []types.PackageRecord
}

// Reconcile joins package records with the repository mapping. Records whose
// short-name has no mapping are left out of Details and collected in
// Unresolved; packages installed from a downloaded file commonly end up here.
// A later record for the same package replaces an earlier one.
func Reconcile(ctx context.Context, records iter.Seq[types.PackageRecord], mapping types.RepositoryMapping) ReconcileResult {
	result := ReconcileResult{Details: types.PackageDetails{}}
	for record := range records {
		assert.NotEmpty(ctx, record.Name, "package record name must be set")
		repository, ok := mapping[record.RepositoryShortName]
		if !ok {
			log.Debug().
				Str("package", record.Name).
				Str("repository", record.RepositoryShortName).
				Msg("repository short-name not resolved")
			result.Unresolved = append(result.Unresolved, record)
			continue
		}
		result.Details[record.Name] = types.PackageDetail{
			Version:    record.Version,
			Repository: repository,
		}
	}
	return result
}
