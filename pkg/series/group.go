package series

import (
	"fmt"
	"sort"

	"github.com/uitgo/loadreport/pkg/results"
)

type Key struct {
	Environment results.Environment
	Workload    results.WorkloadType
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Environment, k.Workload)
}

type Groups map[Key][]results.Record

// Group buckets records by (environment, workload). Each bucket is ordered by
// target rate ascending; equal rates keep their input order.
func Group(records []results.Record) Groups {
	g := make(Groups)
	for _, r := range records {
		k := Key{Environment: r.Environment, Workload: r.Workload}
		g[k] = append(g[k], r)
	}
	for _, rs := range g {
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Rate.SortKey() < rs[j].Rate.SortKey()
		})
	}
	return g
}

func (g Groups) Get(env results.Environment, workload results.WorkloadType) []results.Record {
	rs, ok := g[Key{Environment: env, Workload: workload}]
	if !ok {
		return []results.Record{}
	}
	return rs
}

// Latest is the last record of (env, workload): the highest rate, or the last
// file read when the workload has no rate axis.
func (g Groups) Latest(env results.Environment, workload results.WorkloadType) (results.Record, bool) {
	rs := g.Get(env, workload)
	if len(rs) == 0 {
		return results.Record{}, false
	}
	return rs[len(rs)-1], true
}

func (g Groups) Keys() []Key {
	keys := make([]Key, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Workload != keys[j].Workload {
			return keys[i].Workload < keys[j].Workload
		}
		return keys[i].Environment < keys[j].Environment
	})
	return keys
}

func (g Groups) Workloads() []results.WorkloadType {
	seen := make(map[results.WorkloadType]bool)
	var out []results.WorkloadType
	for _, k := range g.Keys() {
		if !seen[k.Workload] {
			seen[k.Workload] = true
			out = append(out, k.Workload)
		}
	}
	return out
}

type Point struct {
	Rate  int
	Value float64
}

// Series is a rate-indexed sequence of one metric for one (environment,
// workload) pair.
type Series struct {
	Key    Key
	Metric Metric
	Points []Point
}

func (s Series) Name() string {
	return fmt.Sprintf("%s %s", s.Key, s.Metric)
}

func (s Series) Len() int {
	return len(s.Points)
}

func (s Series) XYs() (xs, ys []float64) {
	xs = make([]float64, len(s.Points))
	ys = make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = float64(p.Rate)
		ys[i] = p.Value
	}
	return xs, ys
}

// Build keeps only records with a target rate; records without one have no
// place on a rate axis.
func Build(records []results.Record, env results.Environment, workload results.WorkloadType, metric Metric) Series {
	s := Series{
		Key:    Key{Environment: env, Workload: workload},
		Metric: metric,
		Points: []Point{},
	}
	for _, r := range Group(records).Get(env, workload) {
		rate, ok := r.Rate.Value()
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{Rate: rate, Value: metric.Of(r)})
	}
	return s
}

// BuildAll returns one series per environment that has rated records of the
// given workload, ordered by environment name.
func BuildAll(records []results.Record, workload results.WorkloadType, metric Metric) []Series {
	var out []Series
	for _, k := range Group(records).Keys() {
		if k.Workload != workload {
			continue
		}
		if s := Build(records, k.Environment, workload, metric); s.Len() > 0 {
			out = append(out, s)
		}
	}
	return out
}
