package ports

import "forkerator/internal/types"

type ReportPort interface {
	WriteAudit(report types.AuditReport) error
	WriteRepositories(mapping types.RepositoryMapping) error
}

type MetricsPort interface {
	WriteSummary(path string, summary types.AuditSummary) error
}
