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
	P95ChartFile        = "comparison_p95.png"
	ThroughputChartFile = "comparison_throughput.png"
	ErrorChartFile      = "comparison_errors.png"
	OverheadChartFile   = "comparison_overhead.png"

	labelTargetRate = "Target RPS"
	chartWidth      = 6 * vg.Inch
	chartHeight     = 4 * vg.Inch
	barWidth        = 18
)

var (
	// ErrNoOverlap is returned when the two environments share no target rate.
	ErrNoOverlap = errors.New("no overlapping target rates between environments")
	// ErrNoSeries is returned when no environment has rated runs of a workload.
	ErrNoSeries = errors.New("no rated runs to chart")
)

func colorRGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}

var (
	baseColor     = colorRGBA(54, 162, 235, 255) // blue
	otherColor    = colorRGBA(255, 159, 64, 255) // orange
	overheadColor = colorRGBA(255, 127, 80, 255) // coral
	averageColor  = colorRGBA(220, 20, 60, 255)  // red
)

// RateChartFile names the chart of metric over target rate.
func RateChartFile(metric series.Metric) string {
	return fmt.Sprintf("rps_%s.png", metric)
}

// WriteComparisonCharts renders the four comparison charts of c into dir and
// returns the written paths. ErrNoOverlap is returned when c has no pairs.
func WriteComparisonCharts(dir string, c series.Comparison) ([]string, error) {
	if c.Empty() {
		return nil, ErrNoOverlap
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	charts := []struct {
		file string
		make func(series.Comparison) (*plot.Plot, error)
	}{
		{P95ChartFile, makeP95Chart},
		{ThroughputChartFile, makeThroughputChart},
		{ErrorChartFile, makeErrorChart},
		{OverheadChartFile, makeOverheadChart},
	}

	paths := make([]string, 0, len(charts))
	for _, ch := range charts {
		p, err := ch.make(c)
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

func newChart(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = labelTargetRate
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func deltaXYs(deltas []series.Delta, other bool) plotter.XYs {
	pts := make(plotter.XYs, len(deltas))
	for i, d := range deltas {
		pts[i].X = float64(d.Rate)
		pts[i].Y = d.Base
		if other {
			pts[i].Y = d.Other
		}
	}
	return pts
}

func deltaValues(deltas []series.Delta, pick func(series.Delta) float64) plotter.Values {
	vs := make(plotter.Values, len(deltas))
	for i, d := range deltas {
		vs[i] = pick(d)
	}
	return vs
}

func rateLabels(c series.Comparison) []string {
	rates := c.Rates()
	labels := make([]string, len(rates))
	for i, r := range rates {
		labels[i] = fmt.Sprint(r)
	}
	return labels
}

func lineComparison(c series.Comparison, metric series.Metric, title, yLabel string) (*plot.Plot, error) {
	p := newChart(title, yLabel)
	deltas := c.Deltas(metric)
	err := plotutil.AddLinePoints(p,
		c.Base.Title(), deltaXYs(deltas, false),
		c.Other.Title(), deltaXYs(deltas, true))
	return p, err
}

func makeP95Chart(c series.Comparison) (*plot.Plot, error) {
	return lineComparison(c, series.P95, "P95 Latency Comparison", "P95 Latency (ms)")
}

func makeErrorChart(c series.Comparison) (*plot.Plot, error) {
	return lineComparison(c, series.ErrorPercent, "Error Rate Comparison", "Error Rate (%)")
}

func makeThroughputChart(c series.Comparison) (*plot.Plot, error) {
	p := newChart("Throughput Comparison", "Achieved RPS")
	deltas := c.Deltas(series.AchievedRate)
	w := vg.Points(barWidth)

	baseBars, err := plotter.NewBarChart(deltaValues(deltas, func(d series.Delta) float64 { return d.Base }), w)
	if err != nil {
		return nil, err
	}
	baseBars.Color = baseColor
	baseBars.Offset = -w / 2

	otherBars, err := plotter.NewBarChart(deltaValues(deltas, func(d series.Delta) float64 { return d.Other }), w)
	if err != nil {
		return nil, err
	}
	otherBars.Color = otherColor
	otherBars.Offset = w / 2

	p.Add(baseBars, otherBars)
	p.Legend.Add(c.Base.Title(), baseBars)
	p.Legend.Add(c.Other.Title(), otherBars)
	p.NominalX(rateLabels(c)...)
	return p, nil
}

func makeOverheadChart(c series.Comparison) (*plot.Plot, error) {
	p := newChart(fmt.Sprintf("%s Network Overhead (P95)", c.Other.Title()), "Network Overhead (ms)")
	deltas := c.Deltas(series.P95)
	overhead := deltaValues(deltas, func(d series.Delta) float64 { return d.Absolute })

	bars, err := plotter.NewBarChart(overhead, vg.Points(barWidth*2))
	if err != nil {
		return nil, err
	}
	bars.Color = overheadColor
	p.Add(bars)

	var sum float64
	for _, v := range overhead {
		sum += v
	}
	avg := sum / float64(len(overhead))
	line := plotter.NewFunction(func(float64) float64 { return avg })
	line.XMin = -0.5
	line.XMax = float64(len(overhead)) - 0.5
	line.Color = averageColor
	line.Width = vg.Points(2)
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("Avg: %.1fms", avg), line)

	p.NominalX(rateLabels(c)...)
	return p, nil
}

// WriteRateChart renders one line per environment of metric over target rate
// for workload. ErrNoSeries is returned when nothing is rated.
func WriteRateChart(dir string, records []results.Record, workload results.WorkloadType, metric series.Metric) (string, error) {
	all := series.BuildAll(records, workload, metric)
	if len(all) == 0 {
		return "", ErrNoSeries
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	p := newChart(fmt.Sprintf("%s %s vs Target RPS", workloadTitle(workload), metric), string(metric))
	lines := make([]interface{}, 0, 2*len(all))
	for _, s := range all {
		pts := make(plotter.XYs, s.Len())
		for i, pt := range s.Points {
			pts[i].X = float64(pt.Rate)
			pts[i].Y = pt.Value
		}
		lines = append(lines, s.Key.Environment.Title(), pts)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return "", errors.Wrap(err, "cannot add rate series")
	}

	path := filepath.Join(dir, RateChartFile(metric))
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", errors.Wrapf(err, "cannot save %s", path)
	}
	_, _ = printFn("Wrote %s\n", path)
	return path, nil
}
