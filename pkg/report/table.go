package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
)

var tableHeader = []string{"ENV", "WORKLOAD", "RATE", "ACHIEVED", "P50", "P95", "P99", "AVG", "MAX", "ERR%", "REQUESTS", "DURATION", "SOURCE"}

// WriteTable prints every record, grouped by workload then environment,
// followed by one summary line per environment.
func WriteTable(w io.Writer, records []results.Record) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	setKubectlTableStyle(table)

	groups := series.Group(records)
	for _, k := range groups.Keys() {
		for _, r := range groups[k] {
			table.Append(tableRow(r))
		}
	}
	table.Render()

	if len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return series.WriteSummaries(w, records)
}

func tableRow(r results.Record) []string {
	return []string{
		string(r.Environment),
		string(r.Workload),
		r.Rate.String(),
		fmt.Sprintf("%.1f", r.AchievedRate),
		fmt.Sprintf("%.2f", r.P50),
		fmt.Sprintf("%.2f", r.P95),
		fmt.Sprintf("%.2f", r.P99),
		fmt.Sprintf("%.2f", r.Avg),
		fmt.Sprintf("%.2f", r.Max),
		fmt.Sprintf("%.3f%%", r.ErrorPercent()),
		fmt.Sprint(r.TotalRequests),
		fmt.Sprintf("%.0fs", r.Duration),
		filepath.Base(r.Source),
	}
}

func setKubectlTableStyle(table *tablewriter.Table) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
}
