package series

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/pkg/results"
)

// Metric names one numeric dimension of a record.
type Metric string

const (
	P50           Metric = "p50"
	P95           Metric = "p95"
	P99           Metric = "p99"
	Avg           Metric = "avg"
	Max           Metric = "max"
	AchievedRate  Metric = "achieved_rate"
	TotalRequests Metric = "total_requests"
	ErrorRate     Metric = "error_rate"
	ErrorPercent  Metric = "error_percent"
	Duration      Metric = "duration"
)

var extractors = map[Metric]func(results.Metrics) float64{
	P50:           func(m results.Metrics) float64 { return m.P50 },
	P95:           func(m results.Metrics) float64 { return m.P95 },
	P99:           func(m results.Metrics) float64 { return m.P99 },
	Avg:           func(m results.Metrics) float64 { return m.Avg },
	Max:           func(m results.Metrics) float64 { return m.Max },
	AchievedRate:  func(m results.Metrics) float64 { return m.AchievedRate },
	TotalRequests: func(m results.Metrics) float64 { return float64(m.TotalRequests) },
	ErrorRate:     func(m results.Metrics) float64 { return m.ErrorRate },
	ErrorPercent:  func(m results.Metrics) float64 { return m.ErrorPercent() },
	Duration:      func(m results.Metrics) float64 { return m.Duration },
}

func Metrics() []Metric {
	out := make([]Metric, 0, len(extractors))
	for m := range extractors {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := extractors[m]; !ok {
		return "", errors.Errorf("unknown metric: '%s'", s)
	}
	return m, nil
}

// Of returns the metric value of r; unknown metrics read as 0.
func (m Metric) Of(r results.Record) float64 {
	fn, ok := extractors[m]
	if !ok {
		return 0
	}
	return fn(r.Metrics)
}
