package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/uitgo/loadreport/pkg/results"
)

const (
	SummaryCSVFile      = "summary.csv"
	SummaryMarkdownFile = "summary.md"
)

var summaryColumns = []string{"environment", "rps", "p95_ms", "achieved_rps", "error_rate", "source"}

type SummaryRow struct {
	Environment results.Environment
	Rate        int
	P95         float64
	Achieved    float64
	ErrorRate   float64
	Source      string
}

func (r SummaryRow) fields() []string {
	return []string{
		string(r.Environment),
		strconv.Itoa(r.Rate),
		formatFloat(r.P95),
		formatFloat(r.Achieved),
		formatFloat(r.ErrorRate),
		r.Source,
	}
}

// SummaryRows keeps records with a target rate, ordered by environment then
// rate.
func SummaryRows(records []results.Record) []SummaryRow {
	rows := make([]SummaryRow, 0, len(records))
	for _, r := range records {
		rate, ok := r.Rate.Value()
		if !ok {
			continue
		}
		rows = append(rows, SummaryRow{
			Environment: r.Environment,
			Rate:        rate,
			P95:         r.P95,
			Achieved:    r.AchievedRate,
			ErrorRate:   r.ErrorRate,
			Source:      filepath.Base(r.Source),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Environment != rows[j].Environment {
			return rows[i].Environment < rows[j].Environment
		}
		return rows[i].Rate < rows[j].Rate
	})
	return rows
}

func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSummaryMarkdown(w io.Writer, rows []SummaryRow) error {
	header := make([]string, len(summaryColumns))
	rule := make([]string, len(summaryColumns))
	for i, c := range summaryColumns {
		header[i] = strings.ReplaceAll(c, "_", " ")
		rule[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "|%s|\n|%s|\n", strings.Join(header, "|"), strings.Join(rule, "|")); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "|%s|\n", strings.Join(r.fields(), "|")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
