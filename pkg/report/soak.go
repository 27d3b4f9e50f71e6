package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/internal/utils"
	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	SoakLatencyChartFile  = "soak_comparison.png"
	SoakErrorChartFile    = "soak_errors.png"
	SoakDurationChartFile = "soak_duration.png"
)

// ErrNoSoak is returned when neither environment has a soak run.
var ErrNoSoak = errors.New("no soak runs to chart")

// SoakRun is the soak test that stands for one environment.
type SoakRun struct {
	Environment results.Environment
	Record      results.Record
}

func (s SoakRun) label() string {
	return fmt.Sprintf("%s (%.0f min)", s.Environment.Title(), s.Record.Duration/60)
}

// SoakRuns picks the latest soak run of base and of other. A soak run without
// environment prefix (soaktest_60min) stands in for other when other has none.
func SoakRuns(records []results.Record, base, other results.Environment) []SoakRun {
	g := series.Group(records)
	var runs []SoakRun
	if r, ok := g.Latest(base, results.WorkloadSoak); ok {
		runs = append(runs, SoakRun{Environment: base, Record: r})
	}
	r, ok := g.Latest(other, results.WorkloadSoak)
	if !ok {
		r, ok = g.Latest(results.EnvUnknown, results.WorkloadSoak)
	}
	if ok {
		runs = append(runs, SoakRun{Environment: other, Record: r})
	}
	return runs
}

type soakChart struct {
	file       string
	title      string
	yLabel     string
	categories []string
	values     func(results.Record) plotter.Values
}

var soakCharts = []soakChart{
	{
		file:       SoakLatencyChartFile,
		title:      "Soak Latency Distribution",
		yLabel:     "Latency (ms)",
		categories: []string{"p50", "p95", "p99"},
		values: func(r results.Record) plotter.Values {
			return plotter.Values{r.P50, r.P95, r.P99}
		},
	},
	{
		file:       SoakErrorChartFile,
		title:      "Soak Error Rate",
		yLabel:     "Error Rate (%)",
		categories: []string{"errors"},
		values: func(r results.Record) plotter.Values {
			return plotter.Values{r.ErrorPercent()}
		},
	},
	{
		file:       SoakDurationChartFile,
		title:      "Soak Test Duration",
		yLabel:     "Duration (min)",
		categories: []string{"duration"},
		values: func(r results.Record) plotter.Values {
			return plotter.Values{r.Duration / 60}
		},
	},
}

// WriteSoakCharts renders latency, error rate and duration bars with one bar
// per soak run. ErrNoSoak is returned when runs is empty.
func WriteSoakCharts(dir string, runs []SoakRun) ([]string, error) {
	if len(runs) == 0 {
		return nil, ErrNoSoak
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(soakCharts))
	for _, ch := range soakCharts {
		p, err := makeSoakChart(ch, runs)
		if err != nil {
			return paths, errors.Wrapf(err, "cannot build %s", ch.file)
		}
		path := filepath.Join(dir, ch.file)
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return paths, errors.Wrapf(err, "cannot save %s", path)
		}
		_, _ = printFn("Wrote %s\n", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func makeSoakChart(ch soakChart, runs []SoakRun) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = ch.title
	p.Y.Label.Text = ch.yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	w := vg.Points(barWidth)
	for i, run := range runs {
		bars, err := plotter.NewBarChart(ch.values(run.Record), w)
		if err != nil {
			return nil, err
		}
		bars.Color = soakColor(i)
		bars.Offset = vg.Length(float64(i)-float64(len(runs)-1)/2) * w
		p.Add(bars)
		p.Legend.Add(run.label(), bars)
	}
	p.NominalX(ch.categories...)
	return p, nil
}

func soakColor(i int) color.Color {
	switch i {
	case 0:
		return baseColor
	case 1:
		return otherColor
	}
	return plotutil.Color(i)
}
