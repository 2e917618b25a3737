package app

import (
	"os"
	"time"

	"github.com/google/uuid"

	"forkerator/internal/adapters"
	"forkerator/internal/ports"
	"forkerator/internal/types"
)

type Service struct {
	Platform ports.PlatformPort
	Listing  ports.ListingPort
	Policy   ports.PolicyLoaderPort
	Report   ports.ReportPort
	Metrics  ports.MetricsPort
	Clock    func() time.Time
	Hostname func() (string, error)
	RunID    func() string
}

type ServiceOptions struct {
	Distribution types.Distribution
	Commands     map[types.Distribution]adapters.ListingCommands
}

func NewService(opts ServiceOptions) Service {
	return Service{
		Platform: adapters.NewPlatformAdapter(opts.Distribution),
		Listing:  adapters.NewCommandListingAdapter(opts.Commands),
		Policy:   adapters.NewPolicyFileAdapter(),
		Report:   adapters.NewTableReportAdapter(os.Stdout),
		Metrics:  adapters.NewMetricsTextfileAdapter(),
		Clock:    time.Now,
		Hostname: os.Hostname,
		RunID:    uuid.NewString,
	}
}
