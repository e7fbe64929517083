// File: pkg/formatter/report.go
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ReconcileReport is the display view of one reconciliation run. The caller
// maps its result type onto this before rendering.
type ReconcileReport struct {
	Bucket       string
	Provider     string
	Outcome      string
	Before       string
	After        string
	ObjectCount  string
	Sampled      bool
	SnapshotPath string
}

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	reportLabelStyle = lipgloss.NewStyle().Faint(true).Width(14)

	outcomeStyles = map[string]lipgloss.Style{
		"up-to-date": lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		"updated":    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		"failed":     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

type ReportFormatter struct{}

func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

// FormatReconcileReport renders the run summary: bucket, observed states,
// decision and the object sample.
func (f *ReportFormatter) FormatReconcileReport(report ReconcileReport) string {
	var sb strings.Builder

	sb.WriteString(reportTitleStyle.Render(fmt.Sprintf("Reconcile report: %s (%s)", report.Bucket, report.Provider)))
	sb.WriteString("\n")

	outcomeStyle, ok := outcomeStyles[report.Outcome]
	if !ok {
		outcomeStyle = lipgloss.NewStyle()
	}

	writeField(&sb, "Status", outcomeStyle.Render(strings.ToUpper(report.Outcome)))
	writeField(&sb, "Before", report.Before)
	writeField(&sb, "After", report.After)

	objects := report.ObjectCount
	switch objects {
	case "skipped", "unknown", "":
	default:
		objects += " objects"
		if report.Sampled {
			objects += " (at least)"
		}
	}
	writeField(&sb, "Objects", objects)

	if report.SnapshotPath != "" {
		writeField(&sb, "Snapshot", report.SnapshotPath)
	}

	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(reportLabelStyle.Render(label + ":"))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
