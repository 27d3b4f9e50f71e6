package series

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/uitgo/loadreport/pkg/results"
)

type statGroup struct {
	sum   float64
	max   float64
	count int64
}

func newStatGroup() *statGroup {
	return &statGroup{max: math.Inf(-1)}
}

func (s *statGroup) push(n float64) {
	s.sum += n
	s.count++
	if n > s.max {
		s.max = n
	}
}

func (s *statGroup) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

func (s *statGroup) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Mean is the arithmetic mean of metric over every record of env, or 0 when
// env has no records.
func Mean(records []results.Record, env results.Environment, metric Metric) float64 {
	sg := newStatGroup()
	for _, r := range records {
		if r.Environment == env {
			sg.push(metric.Of(r))
		}
	}
	return sg.Mean()
}

// Summary holds the headline figures of one environment.
type Summary struct {
	Environment   results.Environment `yaml:"environment"`
	Count         int64               `yaml:"count"`
	MeanP95       float64             `yaml:"mean_p95_ms"`
	MaxP95        float64             `yaml:"max_p95_ms"`
	MeanErrorRate float64             `yaml:"mean_error_rate"`
	MaxErrorRate  float64             `yaml:"max_error_rate"`
}

func Summarize(records []results.Record, env results.Environment) Summary {
	p95, errs := newStatGroup(), newStatGroup()
	for _, r := range records {
		if r.Environment != env {
			continue
		}
		p95.push(r.P95)
		errs.push(r.ErrorRate)
	}
	return Summary{
		Environment:   env,
		Count:         p95.count,
		MeanP95:       p95.Mean(),
		MaxP95:        p95.Max(),
		MeanErrorRate: errs.Mean(),
		MaxErrorRate:  errs.Max(),
	}
}

// Overhead compares mean P95 of other against base.
func Overhead(base, other Summary) Delta {
	return NewDelta(0, base.MeanP95, other.MeanP95)
}

func (s Summary) string() string {
	return fmt.Sprintf("runs: %d, mean p95: %8.2fms, max p95: %8.2fms, mean errors: %7.3f%%, max errors: %7.3f%%",
		s.Count,
		s.MeanP95,
		s.MaxP95,
		s.MeanErrorRate*100,
		s.MaxErrorRate*100)
}

// WriteSummaries prints one block per environment present in records,
// ordered by environment name.
func WriteSummaries(w io.Writer, records []results.Record) error {
	envs := make(map[results.Environment]bool)
	maxKeyLength := 0
	for _, r := range records {
		envs[r.Environment] = true
		if len(r.Environment) > maxKeyLength {
			maxKeyLength = len(r.Environment)
		}
	}
	keys := make([]string, 0, len(envs))
	for e := range envs {
		keys = append(keys, string(e))
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := fmt.Fprintf(w, "%-*s: %s\n", maxKeyLength, k, Summarize(records, results.Environment(k)).string())
		if err != nil {
			return err
		}
	}
	return nil
}
