package adapters

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"forkerator/internal/ports"
	"forkerator/internal/types"
)

const metricsNamespace = "forkerator"

// MetricsTextfileAdapter writes the audit summary in the Prometheus text
// format for node_exporter's textfile collector.
type MetricsTextfileAdapter struct{}

func NewMetricsTextfileAdapter() MetricsTextfileAdapter {
	return MetricsTextfileAdapter{}
}

func (a MetricsTextfileAdapter) WriteSummary(path string, summary types.AuditSummary) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	registry := prometheus.NewRegistry()
	gauges := map[string]float64{
		"packages_installed":  float64(summary.Installed),
		"packages_flagged":    float64(summary.Flagged),
		"packages_unresolved": float64(summary.Unresolved),
		"repositories":        float64(summary.Repositories),
	}
	help := map[string]string{
		"packages_installed":  "Installed packages resolved to a repository",
		"packages_flagged":    "Packages neither from an upstream repository nor an approved fork",
		"packages_unresolved": "Packages whose repository short-name could not be resolved",
		"repositories":        "Repository short-names resolved from the repository listing",
	}
	for name, value := range gauges {
		gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help[name],
		}, []string{"distribution"})
		gauge.WithLabelValues(string(summary.Distribution)).Set(value)
		registry.MustRegister(gauge)
	}
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last audit finished",
	})
	lastRun.Set(float64(summary.FinishedAt.Unix()))
	registry.MustRegister(lastRun)

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics textfile").
			WithCause(err)
	}
	return nil
}

var _ ports.MetricsPort = MetricsTextfileAdapter{}
