package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
)

const (
	ComparisonMarkdownFile = "comparison.md"
	generatedLayout        = "2006-01-02 15:04:05"
)

// Thresholds of the generated insights. Latencies in ms, error rates in
// percentage points.
const (
	highLatencyDelta  = 100.0
	goodLatencyDelta  = 50.0
	highErrorDelta    = 1.0
	stableErrorDelta  = 0.1
	maxErrorPercent   = 1.0
	maxP95            = 500.0
	excellentErrorPct = 0.1
	excellentP95      = 200.0
)

// ComparisonReport renders the Markdown comparison of Base against Other.
type ComparisonReport struct {
	Base        results.Environment
	Other       results.Environment
	GeneratedAt time.Time
	ResultsDir  string
}

type comparedPair struct {
	label string
	base  results.Record
	other results.Record
}

func (c ComparisonReport) title() string {
	return fmt.Sprintf("%s vs %s Load Test Comparison Report", c.Other.Title(), c.Base.Title())
}

func (c ComparisonReport) WriteMarkdown(w io.Writer, records []results.Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n\n", c.title())
	fmt.Fprintf(bw, "*Generated: %s*\n\n", c.GeneratedAt.Format(generatedLayout))
	fmt.Fprint(bw, "---\n")

	if len(records) == 0 {
		fmt.Fprint(bw, "\nNo test results found. Run the load tests first.\n")
		return bw.Flush()
	}

	groups := series.Group(records)
	for _, workload := range groups.Workloads() {
		c.writeWorkload(bw, groups, records, workload)
	}
	c.writeSummary(bw, records)
	c.writeRecommendations(bw, records)

	fmt.Fprint(bw, "\n---\n")
	fmt.Fprintf(bw, "\n*For detailed metrics, see `%s` and individual JSON files in `%s`*\n", SummaryCSVFile, c.ResultsDir)
	return bw.Flush()
}

func (c ComparisonReport) writeWorkload(w io.Writer, groups series.Groups, records []results.Record, workload results.WorkloadType) {
	fmt.Fprintf(w, "\n## %s\n\n", workloadTitle(workload))
	fmt.Fprintln(w, "| Environment | RPS Target | RPS Achieved | P50 (ms) | P95 (ms) | P99 (ms) | Avg (ms) | Max (ms) | Error % | Total Req |")
	fmt.Fprintln(w, "|-------------|------------|--------------|----------|----------|----------|----------|----------|---------|-----------|")

	var rows []results.Record
	for _, k := range groups.Keys() {
		if k.Workload == workload {
			rows = append(rows, groups[k]...)
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "| %-11s | %10s | %12.2f | %8.2f | %8.2f | %8.2f | %8.2f | %8.2f | %7.3f | %9d |\n",
			r.Environment, r.Rate, r.AchievedRate, r.P50, r.P95, r.P99, r.Avg, r.Max, r.ErrorPercent(), r.TotalRequests)
	}

	pairs := c.pairs(groups, records, workload)
	if len(pairs) == 0 {
		return
	}
	fmt.Fprint(w, "\n### Performance Comparison\n")
	for _, p := range pairs {
		c.writePair(w, p)
	}
}

// pairs matches records on common target rates. Workloads without a rate
// axis compare the latest run of each side.
func (c ComparisonReport) pairs(groups series.Groups, records []results.Record, workload results.WorkloadType) []comparedPair {
	var out []comparedPair
	for _, p := range series.Align(records, workload, c.Base, c.Other).Pairs {
		out = append(out, comparedPair{label: fmt.Sprint(p.Rate), base: p.Base, other: p.Other})
	}
	base, okBase := lastUnrated(groups.Get(c.Base, workload))
	other, okOther := lastUnrated(groups.Get(c.Other, workload))
	if okBase && okOther {
		out = append(out, comparedPair{label: "N/A", base: base, other: other})
	}
	return out
}

func lastUnrated(rs []results.Record) (results.Record, bool) {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].Rate.Kind() == results.RateNotApplicable {
			return rs[i], true
		}
	}
	return results.Record{}, false
}

func (c ComparisonReport) writePair(w io.Writer, p comparedPair) {
	other, base := c.Other.Title(), c.Base.Title()
	p95 := series.NewDelta(0, p.base.P95, p.other.P95)
	errDiff := p.other.ErrorPercent() - p.base.ErrorPercent()

	fmt.Fprintf(w, "\n**RPS %s:**\n", p.label)
	fmt.Fprintf(w, "- P95 Latency: %s is %+.2fms (%+.1f%%) vs %s\n", other, p95.Absolute, p95.Percent, base)
	fmt.Fprintf(w, "- Error Rate: %s %.3f%% vs %s %.3f%% (Δ %+.3f%%)\n", other, p.other.ErrorPercent(), base, p.base.ErrorPercent(), errDiff)
	fmt.Fprintf(w, "- Throughput: %s achieved %.1f RPS vs %s %.1f RPS\n", other, p.other.AchievedRate, base, p.base.AchievedRate)

	switch {
	case p95.Absolute > highLatencyDelta:
		fmt.Fprintf(w, "  - ⚠️ **High network latency**: %s adds %.0fms overhead\n", other, p95.Absolute)
	case p95.Absolute < goodLatencyDelta:
		fmt.Fprintf(w, "  - ✅ **Good network performance**: Only %.0fms overhead\n", p95.Absolute)
	}
	switch {
	case errDiff > highErrorDelta:
		fmt.Fprintf(w, "  - ⚠️ **Higher error rate on %s**: Investigate infrastructure issues\n", other)
	case errDiff < stableErrorDelta:
		fmt.Fprint(w, "  - ✅ **Stable error rates**: Infrastructure is reliable\n")
	}
}

func (c ComparisonReport) writeSummary(w io.Writer, records []results.Record) {
	fmt.Fprint(w, "\n---\n\n## Summary\n\n")

	base := series.Summarize(records, c.Base)
	other := series.Summarize(records, c.Other)
	for _, s := range []series.Summary{base, other} {
		if s.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "- **%s Average P95**: %.2fms\n", s.Environment.Title(), s.MeanP95)
		fmt.Fprintf(w, "- **%s Average Error Rate**: %.3f%%\n", s.Environment.Title(), s.MeanErrorRate*100)
	}
	if base.Count > 0 && other.Count > 0 && base.MeanP95 > 0 {
		o := series.Overhead(base, other)
		fmt.Fprintf(w, "- **Network Overhead**: %.2fms (%.1f%%)\n", o.Absolute, o.Percent)
	}
}

func (c ComparisonReport) writeRecommendations(w io.Writer, records []results.Record) {
	fmt.Fprint(w, "\n## Recommendations\n\n")

	s := series.Summarize(records, c.Other)
	if s.Count == 0 {
		return
	}
	maxErr := s.MaxErrorRate * 100
	if maxErr > maxErrorPercent {
		fmt.Fprint(w, "- ⚠️ **High Error Rate**: Error rate exceeds 1%. Investigate:\n"+
			"  - Database connection pool size\n"+
			"  - Rate limiting configuration\n"+
			"  - Resource exhaustion (CPU/Memory)\n")
	}
	if s.MaxP95 > maxP95 {
		fmt.Fprint(w, "- ⚠️ **High Latency**: P95 exceeds 500ms. Consider:\n"+
			"  - Adding Redis caching\n"+
			"  - Database query optimization\n"+
			"  - Horizontal scaling (more instances)\n")
	}
	if maxErr < excellentErrorPct && s.MaxP95 < excellentP95 {
		fmt.Fprint(w, "- ✅ **Excellent Performance**: System is production-ready\n"+
			"  - Consider testing at higher load levels\n"+
			"  - Run soak tests for stability validation\n")
	}
}

// workloadTitle turns trip_matching into "Trip Matching".
func workloadTitle(wt results.WorkloadType) string {
	words := strings.Split(string(wt), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// environments lists the environments present in records, sorted.
func environments(records []results.Record) []results.Environment {
	seen := make(map[results.Environment]bool)
	var out []results.Environment
	for _, r := range records {
		if !seen[r.Environment] {
			seen[r.Environment] = true
			out = append(out, r.Environment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
