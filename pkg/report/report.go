package report

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
)

// Renderer writes the report artifacts of one set of records into
// Config.ReportDir.
type Renderer struct {
	Config
	resultsDir string
	now        func() time.Time
	log        logrus.FieldLogger
}

func NewRenderer(c Config, resultsDir string) (*Renderer, error) {
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		Config:     c,
		resultsDir: resultsDir,
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}, nil
}

func (r *Renderer) WithLogger(log logrus.FieldLogger) *Renderer {
	r.log = log
	return r
}

func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Summary writes summary.csv and summary.md.
func (r *Renderer) Summary(records []results.Record) ([]string, error) {
	rows := SummaryRows(records)
	csvPath, err := writeFile(r.ReportDir, SummaryCSVFile, func(w io.Writer) error {
		return WriteSummaryCSV(w, rows)
	})
	if err != nil {
		return nil, err
	}
	mdPath, err := writeFile(r.ReportDir, SummaryMarkdownFile, func(w io.Writer) error {
		return WriteSummaryMarkdown(w, rows)
	})
	if err != nil {
		return []string{csvPath}, err
	}
	return []string{csvPath, mdPath}, nil
}

// Comparison writes comparison.md and comparison.yaml.
func (r *Renderer) Comparison(records []results.Record) ([]string, error) {
	generated := r.now()
	cr := ComparisonReport{
		Base:        r.base(),
		Other:       r.other(),
		GeneratedAt: generated,
		ResultsDir:  r.resultsDir,
	}
	mdPath, err := writeFile(r.ReportDir, ComparisonMarkdownFile, func(w io.Writer) error {
		return cr.WriteMarkdown(w, records)
	})
	if err != nil {
		return nil, err
	}
	yamlPath, err := writeFile(r.ReportDir, ComparisonYAMLFile, func(w io.Writer) error {
		return WriteComparisonYAML(w, records, cr.Base, cr.Other, generated)
	})
	if err != nil {
		return []string{mdPath}, err
	}
	return []string{mdPath, yamlPath}, nil
}

// Charts writes the comparison charts and the metric over rate chart of the
// configured workload, then the soak charts. Missing data is logged and
// skipped, not an error.
func (r *Renderer) Charts(records []results.Record) ([]string, error) {
	workload := r.workload()
	log := r.log.WithField("workload", workload)
	var paths []string

	c := series.Align(records, workload, r.base(), r.other())
	written, err := WriteComparisonCharts(r.ReportDir, c)
	switch {
	case errors.Cause(err) == ErrNoOverlap:
		log.WithFields(logrus.Fields{"base": c.Base, "other": c.Other}).Warn("no overlapping target rates, skipping comparison charts")
	case err != nil:
		return append(paths, written...), err
	}
	paths = append(paths, written...)

	path, err := WriteRateChart(r.ReportDir, records, workload, r.metric())
	switch {
	case errors.Cause(err) == ErrNoSeries:
		log.Warn("no rated runs, skipping rate chart")
	case err != nil:
		return paths, err
	default:
		paths = append(paths, path)
	}

	written, err = WriteSoakCharts(r.ReportDir, SoakRuns(records, r.base(), r.other()))
	switch {
	case errors.Cause(err) == ErrNoSoak:
		r.log.Info("no soak runs, skipping soak charts")
	case err != nil:
		return append(paths, written...), err
	}
	return append(paths, written...), nil
}

func (r *Renderer) Table(w io.Writer, records []results.Record) error {
	return WriteTable(w, records)
}

// All writes every artifact, charts included unless NoCharts is set.
func (r *Renderer) All(records []results.Record) ([]string, error) {
	steps := []func([]results.Record) ([]string, error){r.Summary, r.Comparison}
	if !r.NoCharts {
		steps = append(steps, r.Charts)
	}
	var paths []string
	for _, step := range steps {
		written, err := step(records)
		paths = append(paths, written...)
		if err != nil {
			return paths, err
		}
	}
	return paths, nil
}
