package series

import (
	"sort"

	"github.com/uitgo/loadreport/pkg/results"
)

type Pair struct {
	Rate  int
	Base  results.Record
	Other results.Record
}

// Comparison pairs the records of two environments that share a target rate.
type Comparison struct {
	Workload results.WorkloadType
	Base     results.Environment
	Other    results.Environment
	Pairs    []Pair
}

type Delta struct {
	Rate     int     `yaml:"rate"`
	Base     float64 `yaml:"base"`
	Other    float64 `yaml:"other"`
	Absolute float64 `yaml:"absolute"`
	Percent  float64 `yaml:"percent"`
}

// Align emits one pair per target rate present on both sides, ascending.
// Rates found on one side only are dropped. When one side repeats a rate the
// last record in input order wins.
func Align(records []results.Record, workload results.WorkloadType, base, other results.Environment) Comparison {
	c := Comparison{Workload: workload, Base: base, Other: other, Pairs: []Pair{}}

	baseByRate := indexByRate(records, workload, base)
	otherByRate := indexByRate(records, workload, other)

	common := make([]int, 0, len(baseByRate))
	for rate := range baseByRate {
		if _, ok := otherByRate[rate]; ok {
			common = append(common, rate)
		}
	}
	sort.Ints(common)

	for _, rate := range common {
		c.Pairs = append(c.Pairs, Pair{Rate: rate, Base: baseByRate[rate], Other: otherByRate[rate]})
	}
	return c
}

func indexByRate(records []results.Record, workload results.WorkloadType, env results.Environment) map[int]results.Record {
	out := make(map[int]results.Record)
	for _, r := range records {
		if r.Workload != workload || r.Environment != env {
			continue
		}
		if rate, ok := r.Rate.Value(); ok {
			out[rate] = r
		}
	}
	return out
}

func (c Comparison) Empty() bool {
	return len(c.Pairs) == 0
}

func (c Comparison) Rates() []int {
	out := make([]int, len(c.Pairs))
	for i, p := range c.Pairs {
		out[i] = p.Rate
	}
	return out
}

func (c Comparison) Deltas(metric Metric) []Delta {
	out := make([]Delta, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		out = append(out, NewDelta(p.Rate, metric.Of(p.Base), metric.Of(p.Other)))
	}
	return out
}

func NewDelta(rate int, base, other float64) Delta {
	return Delta{
		Rate:     rate,
		Base:     base,
		Other:    other,
		Absolute: other - base,
		Percent:  PercentChange(base, other),
	}
}

// PercentChange is (other-base)/base*100, and 0 when base is 0.
func PercentChange(base, other float64) float64 {
	if base == 0 {
		return 0
	}
	return (other - base) / base * 100
}
