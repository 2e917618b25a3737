package types

import "time"

const UnknownCategory = "*unknown*"

type ReportRow struct {
	Package    string
	Version    string
	Category   string
	Repository string
}

type ReportOptions struct {
	Category       bool
	SortByCategory bool
	ShowUnresolved bool
}

type RunInfo struct {
	ID           string
	Hostname     string
	Distribution string
	FinishedAt   time.Time
}

type AuditReport struct {
	Rows       []ReportRow
	Unresolved []PackageRecord
	Options    ReportOptions
	Run        RunInfo
}

type AuditSummary struct {
	Distribution Distribution
	Repositories int
	Installed    int
	Unresolved   int
	Flagged      int
	FinishedAt   time.Time
}
