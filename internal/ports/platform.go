package ports

import "forkerator/internal/types"

type PlatformPort interface {
	Detect() (types.Platform, error)
}
