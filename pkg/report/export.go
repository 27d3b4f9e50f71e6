package report

import (
	"io"
	"time"

	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
	"gopkg.in/yaml.v2"
)

const ComparisonYAMLFile = "comparison.yaml"

type workloadDeltas struct {
	Workload     results.WorkloadType `yaml:"workload"`
	Rates        []int                `yaml:"rates"`
	P95          []series.Delta       `yaml:"p95_ms"`
	ErrorRate    []series.Delta       `yaml:"error_rate"`
	AchievedRate []series.Delta       `yaml:"achieved_rps"`
}

type comparisonExport struct {
	GeneratedAt string              `yaml:"generated_at"`
	Base        results.Environment `yaml:"base"`
	Other       results.Environment `yaml:"other"`
	Summaries   []series.Summary    `yaml:"summaries"`
	Overhead    series.Delta        `yaml:"p95_overhead"`
	Workloads   []workloadDeltas    `yaml:"workloads"`
}

// WriteComparisonYAML exports the aligned deltas of every workload that has
// common target rates.
func WriteComparisonYAML(w io.Writer, records []results.Record, base, other results.Environment, generatedAt time.Time) error {
	baseSummary := series.Summarize(records, base)
	otherSummary := series.Summarize(records, other)
	out := comparisonExport{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Base:        base,
		Other:       other,
		Overhead:    series.Overhead(baseSummary, otherSummary),
		Workloads:   []workloadDeltas{},
	}
	for _, env := range environments(records) {
		out.Summaries = append(out.Summaries, series.Summarize(records, env))
	}

	for _, workload := range series.Group(records).Workloads() {
		c := series.Align(records, workload, base, other)
		if c.Empty() {
			continue
		}
		out.Workloads = append(out.Workloads, workloadDeltas{
			Workload:     workload,
			Rates:        c.Rates(),
			P95:          c.Deltas(series.P95),
			ErrorRate:    c.Deltas(series.ErrorRate),
			AchievedRate: c.Deltas(series.AchievedRate),
		})
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
