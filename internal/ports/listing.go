package ports

import (
	"context"

	"forkerator/internal/types"
)

// ListingPort runs the host's package manager and returns its raw output.
// A failed command yields whatever text it produced rather than an error.
type ListingPort interface {
	RepositoryListing(ctx context.Context, dist types.Distribution) (string, error)
	PackageListing(ctx context.Context, dist types.Distribution) (string, error)
}
