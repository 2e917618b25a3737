package ports

import "forkerator/internal/types"

type PolicyLoaderPort interface {
	LoadUpstream(path string) (types.UpstreamPolicy, error)
	LoadApprovals(path string) (types.ApprovalsPolicy, error)
}
