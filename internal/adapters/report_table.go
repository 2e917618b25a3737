package adapters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"forkerator/internal/ports"
	"forkerator/internal/types"
)

const (
	reportTitle         = "Unconfigured Upstream Repos and/or Unapproved Packages"
	reportCategoryTitle = "Unconfigured Upstream Repos and/or Unapproved Packages with Category"
	unresolvedTitle     = "Packages From Unresolved Repositories"
	footerTimeLayout    = "01/02/06 15:04:05"
)

// TableReportAdapter renders the audit as padded, tab separated columns.
type TableReportAdapter struct {
	Out io.Writer
}

func NewTableReportAdapter(out io.Writer) TableReportAdapter {
	if out == nil {
		out = os.Stdout
	}
	return TableReportAdapter{Out: out}
}

func (a TableReportAdapter) WriteAudit(report types.AuditReport) error {
	var sb strings.Builder
	switch {
	case report.Options.Category && report.Options.SortByCategory:
		fmt.Fprintf(&sb, "\n%s\n\n", reportCategoryTitle)
		writeHeader(&sb, "%-20s\t%-40s\t%-25s\t%s\n", "category", "package", "version", "repository")
		for _, row := range report.Rows {
			writeRow(&sb, "%-20s\t%-40s\t%-25s\t%s\n", row.Category, row.Package, row.Version, row.Repository)
		}
	case report.Options.Category:
		fmt.Fprintf(&sb, "\n%s\n\n", reportCategoryTitle)
		writeHeader(&sb, "%-40s\t%-25s\t%-20s\t%s\n", "package", "version", "category", "repository")
		for _, row := range report.Rows {
			writeRow(&sb, "%-40s\t%-25s\t%-20s\t%s\n", row.Package, row.Version, row.Category, row.Repository)
		}
	default:
		fmt.Fprintf(&sb, "\n%s\n\n", reportTitle)
		writeHeader(&sb, "%-40s\t%-25s\t%s\n", "package", "version", "repository")
		for _, row := range report.Rows {
			writeRow(&sb, "%-40s\t%-25s\t%s\n", row.Package, row.Version, row.Repository)
		}
	}

	if report.Options.ShowUnresolved && len(report.Unresolved) > 0 {
		fmt.Fprintf(&sb, "\n%s\n\n", unresolvedTitle)
		writeHeader(&sb, "%-40s\t%-25s\t%s\n", "package", "version", "repository")
		for _, record := range report.Unresolved {
			writeRow(&sb, "%-40s\t%-25s\t%s\n", record.Name, record.Version, record.RepositoryShortName)
		}
	}

	fmt.Fprintf(&sb, "\nRan on %s (%s) at %s\n",
		report.Run.Hostname,
		report.Run.Distribution,
		report.Run.FinishedAt.Format(footerTimeLayout))
	return a.write(sb.String())
}

func (a TableReportAdapter) WriteRepositories(mapping types.RepositoryMapping) error {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	writeHeader(&sb, "%-30s\t%s\n", "short-name", "repository")
	for _, name := range names {
		writeRow(&sb, "%-30s\t%s\n", name, mapping[name])
	}
	return a.write(sb.String())
}

func writeHeader(sb *strings.Builder, format string, columns ...string) {
	underline := make([]any, len(columns))
	names := make([]any, len(columns))
	for i, column := range columns {
		names[i] = column
		underline[i] = strings.Repeat("-", len(column))
	}
	fmt.Fprintf(sb, format, names...)
	fmt.Fprintf(sb, format, underline...)
}

func writeRow(sb *strings.Builder, format string, columns ...any) {
	fmt.Fprintf(sb, format, columns...)
}

func (a TableReportAdapter) write(content string) error {
	if _, err := io.WriteString(a.Out, content); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportPort = TableReportAdapter{}
