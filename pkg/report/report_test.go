package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andreyvit/diff"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
)

var generatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func fixtureRecords() []results.Record {
	return []results.Record{
		{
			ClassifiedRun: results.ClassifiedRun{Environment: results.EnvLocal, Workload: results.WorkloadTripMatching, Rate: results.Rated(20)},
			Metrics:       results.Metrics{P50: 50, P95: 100, P99: 150, Avg: 60, Max: 200, AchievedRate: 19.8, TotalRequests: 1188},
			Source:        "loadtests/results/local_run_20.json",
		},
		{
			ClassifiedRun: results.ClassifiedRun{Environment: results.EnvAWS, Workload: results.WorkloadTripMatching, Rate: results.Rated(20)},
			Metrics:       results.Metrics{P50: 80, P95: 250, P99: 300, Avg: 90, Max: 400, AchievedRate: 19.5, TotalRequests: 1170, ErrorRate: 0.0005},
			Source:        "loadtests/results/aws_run_20.json",
		},
	}
}

func homeMeta(env results.Environment, p95 float64) results.Record {
	return results.Record{
		ClassifiedRun: results.ClassifiedRun{Environment: env, Workload: results.WorkloadHomeMeta, Rate: results.NotApplicable()},
		Metrics:       results.Metrics{P95: p95},
		Source:        string(env) + "_home_meta.json",
	}
}

func silence(t *testing.T) {
	old := printFn
	printFn = func(string, ...interface{}) (int, error) { return 0, nil }
	t.Cleanup(func() { printFn = old })
}

func TestSummaryExports(t *testing.T) {
	records := append(fixtureRecords(), homeMeta(results.EnvLocal, 10))
	rows := SummaryRows(records)
	require.Len(t, rows, 2)
	assert.Equal(t, results.EnvAWS, rows[0].Environment)

	var csvOut bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&csvOut, rows))
	assert.Equal(t,
		"environment,rps,p95_ms,achieved_rps,error_rate,source\n"+
			"aws,20,250,19.5,0.0005,aws_run_20.json\n"+
			"local,20,100,19.8,0,local_run_20.json\n",
		csvOut.String())

	var mdOut bytes.Buffer
	require.NoError(t, WriteSummaryMarkdown(&mdOut, rows))
	assert.Equal(t,
		"|environment|rps|p95 ms|achieved rps|error rate|source|\n"+
			"|---|---|---|---|---|---|\n"+
			"|aws|20|250|19.5|0.0005|aws_run_20.json|\n"+
			"|local|20|100|19.8|0|local_run_20.json|\n",
		mdOut.String())
}

func TestComparisonMarkdown(t *testing.T) {
	expected := strings.Join([]string{
		"# AWS vs Local Load Test Comparison Report",
		"",
		"*Generated: 2025-01-02 03:04:05*",
		"",
		"---",
		"",
		"## Trip Matching",
		"",
		"| Environment | RPS Target | RPS Achieved | P50 (ms) | P95 (ms) | P99 (ms) | Avg (ms) | Max (ms) | Error % | Total Req |",
		"|-------------|------------|--------------|----------|----------|----------|----------|----------|---------|-----------|",
		"| aws         |         20 |        19.50 |    80.00 |   250.00 |   300.00 |    90.00 |   400.00 |   0.050 |      1170 |",
		"| local       |         20 |        19.80 |    50.00 |   100.00 |   150.00 |    60.00 |   200.00 |   0.000 |      1188 |",
		"",
		"### Performance Comparison",
		"",
		"**RPS 20:**",
		"- P95 Latency: AWS is +150.00ms (+150.0%) vs Local",
		"- Error Rate: AWS 0.050% vs Local 0.000% (Δ +0.050%)",
		"- Throughput: AWS achieved 19.5 RPS vs Local 19.8 RPS",
		"  - ⚠️ **High network latency**: AWS adds 150ms overhead",
		"  - ✅ **Stable error rates**: Infrastructure is reliable",
		"",
		"---",
		"",
		"## Summary",
		"",
		"- **Local Average P95**: 100.00ms",
		"- **Local Average Error Rate**: 0.000%",
		"- **AWS Average P95**: 250.00ms",
		"- **AWS Average Error Rate**: 0.050%",
		"- **Network Overhead**: 150.00ms (150.0%)",
		"",
		"## Recommendations",
		"",
		"",
		"---",
		"",
		"*For detailed metrics, see `summary.csv` and individual JSON files in `loadtests/results`*",
		"",
	}, "\n")

	cr := ComparisonReport{Base: results.EnvLocal, Other: results.EnvAWS, GeneratedAt: generatedAt, ResultsDir: "loadtests/results"}
	var buf bytes.Buffer
	require.NoError(t, cr.WriteMarkdown(&buf, fixtureRecords()))
	if actual := buf.String(); actual != expected {
		t.Errorf("comparison report not as expected:\n%v", diff.LineDiff(expected, actual))
	}
}

func TestComparisonMarkdownUnratedAndRecommendations(t *testing.T) {
	records := []results.Record{
		homeMeta(results.EnvLocal, 10),
		homeMeta(results.EnvLocal, 20),
		homeMeta(results.EnvAWS, 700),
	}
	records[2].ErrorRate = 0.05

	cr := ComparisonReport{Base: results.EnvLocal, Other: results.EnvAWS, GeneratedAt: generatedAt}
	var buf bytes.Buffer
	require.NoError(t, cr.WriteMarkdown(&buf, records))
	out := buf.String()

	assert.Contains(t, out, "## Home Meta")
	assert.Contains(t, out, "**RPS N/A:**")
	assert.Contains(t, out, "- P95 Latency: AWS is +680.00ms (+3400.0%) vs Local")
	assert.Contains(t, out, "⚠️ **Higher error rate on AWS**")
	assert.Contains(t, out, "⚠️ **High Error Rate**")
	assert.Contains(t, out, "⚠️ **High Latency**")
	assert.NotContains(t, out, "Excellent Performance")
}

func TestComparisonMarkdownExcellent(t *testing.T) {
	records := fixtureRecords()
	records[1].P95 = 120

	cr := ComparisonReport{Base: results.EnvLocal, Other: results.EnvAWS, GeneratedAt: generatedAt}
	var buf bytes.Buffer
	require.NoError(t, cr.WriteMarkdown(&buf, records))
	assert.Contains(t, buf.String(), "✅ **Good network performance**: Only 20ms overhead")
	assert.Contains(t, buf.String(), "✅ **Excellent Performance**: System is production-ready")
}

func TestComparisonMarkdownEmpty(t *testing.T) {
	cr := ComparisonReport{Base: results.EnvLocal, Other: results.EnvAWS, GeneratedAt: generatedAt}
	var buf bytes.Buffer
	require.NoError(t, cr.WriteMarkdown(&buf, nil))
	assert.Contains(t, buf.String(), "No test results found.")
	assert.NotContains(t, buf.String(), "## Summary")
}

func TestWorkloadTitle(t *testing.T) {
	assert.Equal(t, "Trip Matching", workloadTitle(results.WorkloadTripMatching))
	assert.Equal(t, "Search", workloadTitle(results.WorkloadSearch))
}

func TestComparisonYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonYAML(&buf, fixtureRecords(), results.EnvLocal, results.EnvAWS, generatedAt))
	out := buf.String()
	assert.Contains(t, out, "2025-01-02T03:04:05Z")
	assert.Contains(t, out, "workload: trip_matching")
	assert.Contains(t, out, "absolute: 150")
	assert.Contains(t, out, "environment: aws")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, append(fixtureRecords(), homeMeta(results.EnvAWS, 10))))
	out := buf.String()
	assert.Contains(t, out, "WORKLOAD")
	assert.Contains(t, out, "local_run_20.json")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "local: runs: 1")

	buf.Reset()
	require.NoError(t, WriteTable(&buf, nil))
	assert.NotContains(t, buf.String(), "runs:")
}

func TestWriteComparisonCharts(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	records := append(fixtureRecords(),
		results.Record{
			ClassifiedRun: results.ClassifiedRun{Environment: results.EnvLocal, Workload: results.WorkloadTripMatching, Rate: results.Rated(40)},
			Metrics:       results.Metrics{P95: 140, AchievedRate: 39},
		},
		results.Record{
			ClassifiedRun: results.ClassifiedRun{Environment: results.EnvAWS, Workload: results.WorkloadTripMatching, Rate: results.Rated(40)},
			Metrics:       results.Metrics{P95: 300, AchievedRate: 38, ErrorRate: 0.02},
		},
	)

	c := series.Align(records, results.WorkloadTripMatching, results.EnvLocal, results.EnvAWS)
	paths, err := WriteComparisonCharts(dir, c)
	require.NoError(t, err)
	require.Len(t, paths, 4)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	path, err := WriteRateChart(dir, records, results.WorkloadTripMatching, series.P95)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rps_p95.png"), path)
	assert.FileExists(t, path)
}

func TestChartsWithoutData(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteComparisonCharts(dir, series.Align(nil, results.WorkloadTripMatching, results.EnvLocal, results.EnvAWS))
	assert.Equal(t, ErrNoOverlap, err)

	_, err = WriteRateChart(dir, []results.Record{homeMeta(results.EnvLocal, 1)}, results.WorkloadTripMatching, series.P95)
	assert.Equal(t, ErrNoSeries, err)
}

func TestRendererAll(t *testing.T) {
	silence(t)
	dir := filepath.Join(t.TempDir(), "report")
	r, err := NewRenderer(Config{ReportDir: dir, BaseEnv: "local", OtherEnv: "aws"}, "loadtests/results")
	require.NoError(t, err)
	r.WithClock(func() time.Time { return generatedAt })

	paths, err := r.All(fixtureRecords())
	require.NoError(t, err)
	want := []string{
		SummaryCSVFile, SummaryMarkdownFile, ComparisonMarkdownFile, ComparisonYAMLFile,
		P95ChartFile, ThroughputChartFile, ErrorChartFile, OverheadChartFile, RateChartFile(series.P95),
	}
	require.Len(t, paths, len(want))
	for i, name := range want {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		assert.FileExists(t, paths[i])
	}

	md, err := os.ReadFile(filepath.Join(dir, ComparisonMarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "*Generated: 2025-01-02 03:04:05*")
}

func TestRendererSkipsChartsWithoutOverlap(t *testing.T) {
	silence(t)
	logger, hook := test.NewNullLogger()
	dir := t.TempDir()
	records := fixtureRecords()[:1]

	r, err := NewRenderer(Config{ReportDir: dir, BaseEnv: "local", OtherEnv: "aws"}, "")
	require.NoError(t, err)
	r.WithLogger(logger)
	paths, err := r.Charts(records)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, RateChartFile(series.P95))}, paths)

	var warns []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warns = append(warns, e)
		}
	}
	require.Len(t, warns, 1)
	assert.Equal(t, results.WorkloadTripMatching, warns[0].Data["workload"])

	r.NoCharts = true
	paths, err = r.All(records)
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func soak(env results.Environment, p95, minutes float64, source string) results.Record {
	return results.Record{
		ClassifiedRun: results.ClassifiedRun{Environment: env, Workload: results.WorkloadSoak, Rate: results.NotApplicable()},
		Metrics:       results.Metrics{P50: p95 / 2, P95: p95, P99: p95 * 1.5, ErrorRate: 0.005, Duration: minutes * 60},
		Source:        source,
	}
}

func TestSoakRuns(t *testing.T) {
	local := soak(results.EnvLocal, 210, 30, "local_30min.json")
	unprefixed := soak(results.EnvUnknown, 295, 60, "soaktest_60min.json")
	aws := soak(results.EnvAWS, 320, 90, "aws_90min.json")

	runs := SoakRuns([]results.Record{local, unprefixed}, results.EnvLocal, results.EnvAWS)
	require.Len(t, runs, 2)
	assert.Equal(t, SoakRun{Environment: results.EnvLocal, Record: local}, runs[0])
	assert.Equal(t, SoakRun{Environment: results.EnvAWS, Record: unprefixed}, runs[1])
	assert.Equal(t, "AWS (60 min)", runs[1].label())

	runs = SoakRuns([]results.Record{aws, local, unprefixed}, results.EnvLocal, results.EnvAWS)
	require.Len(t, runs, 2)
	assert.Equal(t, aws, runs[1].Record)

	assert.Empty(t, SoakRuns(fixtureRecords(), results.EnvLocal, results.EnvAWS))
}

func TestWriteSoakCharts(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	runs := SoakRuns([]results.Record{
		soak(results.EnvLocal, 210, 30, "local_30min.json"),
		soak(results.EnvAWS, 295, 90, "aws_90min.json"),
	}, results.EnvLocal, results.EnvAWS)

	paths, err := WriteSoakCharts(dir, runs)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, SoakLatencyChartFile),
		filepath.Join(dir, SoakErrorChartFile),
		filepath.Join(dir, SoakDurationChartFile),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	paths, err = WriteSoakCharts(t.TempDir(), runs[:1])
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	_, err = WriteSoakCharts(dir, nil)
	assert.Equal(t, ErrNoSoak, err)
}

func TestRendererChartsIncludeSoakAndMetric(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	records := append(fixtureRecords(),
		soak(results.EnvLocal, 210, 30, "local_30min.json"),
		soak(results.EnvUnknown, 295, 60, "soaktest_60min.json"),
	)

	r, err := NewRenderer(Config{ReportDir: dir, Metric: "p99"}, "")
	require.NoError(t, err)
	paths, err := r.Charts(records)
	require.NoError(t, err)
	assert.Contains(t, paths, filepath.Join(dir, "rps_p99.png"))
	assert.Contains(t, paths, filepath.Join(dir, SoakLatencyChartFile))
	assert.NotContains(t, paths, filepath.Join(dir, RateChartFile(series.P95)))
	assert.Len(t, paths, 8)
}

func TestNewRendererValidatesConfig(t *testing.T) {
	r, err := NewRenderer(Config{OtherEnv: "AWS", BaseEnv: " Local"}, "")
	require.NoError(t, err)
	assert.Equal(t, results.EnvAWS, r.other())
	assert.Equal(t, results.EnvLocal, r.base())
	assert.Equal(t, DefaultReportDir, r.ReportDir)
	assert.Equal(t, series.P95, r.metric())
	assert.Equal(t, results.WorkloadTripMatching, r.workload())

	_, err = NewRenderer(Config{OtherEnv: "gcp"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other-env")
	assert.Contains(t, err.Error(), "local, aws")

	_, err = NewRenderer(Config{BaseEnv: "unknown"}, "")
	assert.Error(t, err)

	_, err = NewRenderer(Config{Metric: "p42"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p42")
}

func TestWriteFileRemovesFailedArtifact(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	_, err := writeFile(dir, "broken.md", func(w io.Writer) error {
		if _, err := io.WriteString(w, "partial"); err != nil {
			return err
		}
		return errors.New("render failed")
	})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "broken.md"))

	path, err := writeFile(dir, "ok.md", func(w io.Writer) error {
		_, err := io.WriteString(w, "done")
		return err
	})
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "done", string(b))
}
