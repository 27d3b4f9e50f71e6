package load

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uitgo/loadreport/pkg/results"
)

const validSummary = `{"metrics": {"http_req_duration": {"values": {"p(95)": 100}}, "http_reqs": {"values": {"rate": 19.5, "count": 1170}}}}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestLoader(t *testing.T, c LoaderConfig) (*Loader, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	l, err := NewLoader(c)
	require.NoError(t, err)
	return l.WithLogger(log), hook
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}

func TestLoadSkipsCorruptFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"aws_run_20.json":   validSummary,
		"local_run_20.json": validSummary,
		"local_run_40.json": "this is not json",
	})

	l, hook := newTestLoader(t, LoaderConfig{ResultsDir: dir})
	b := l.Load()

	require.Len(t, b.Records, 2)
	require.Len(t, b.Skipped, 1)
	assert.Equal(t, filepath.Join(dir, "local_run_40.json"), b.Skipped[0].Path)
	assert.Equal(t, 3, b.Seen)

	warns := warnings(hook)
	require.Len(t, warns, 1)
	assert.Equal(t, "skipping result file", warns[0].Message)
	assert.Equal(t, "local_run_40.json", warns[0].Data["file"])

	assert.Equal(t, results.EnvAWS, b.Records[0].Environment)
	assert.Equal(t, results.EnvLocal, b.Records[1].Environment)
	assert.Equal(t, 100.0, b.Records[1].P95)
	assert.Equal(t, int64(1170), b.Records[1].TotalRequests)
}

func TestLoadMissingDirectory(t *testing.T) {
	l, hook := newTestLoader(t, LoaderConfig{ResultsDir: filepath.Join(t.TempDir(), "nope")})
	b := l.Load()

	assert.Empty(t, b.Records)
	assert.Empty(t, b.Skipped)
	require.NotEmpty(t, warnings(hook))
	assert.Equal(t, "results directory not found", warnings(hook)[0].Message)
}

func TestLoadPolicies(t *testing.T) {
	files := map[string]string{
		"local_run_20.json":      validSummary,
		"local_home_meta.json":   validSummary,
		"aws_search_only.json":   validSummary,
		"notes.txt":              "ignored",
		"soaktest_run_long.json": validSummary,
	}

	t.Run("broad", func(t *testing.T) {
		l, _ := newTestLoader(t, LoaderConfig{ResultsDir: writeFiles(t, files), Policy: "broad"})
		b := l.Load()
		assert.Len(t, b.Records, 4)
		assert.Equal(t, 4, b.Seen)
		assert.Zero(t, b.Filtered)
	})

	t.Run("narrow", func(t *testing.T) {
		l, hook := newTestLoader(t, LoaderConfig{ResultsDir: writeFiles(t, files), Policy: "narrow"})
		b := l.Load()
		require.Len(t, b.Records, 1)
		assert.Equal(t, results.Rated(20), b.Records[0].Rate)
		assert.Equal(t, 2, b.Seen)
		assert.Equal(t, 1, b.Filtered)

		var debug int
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.DebugLevel {
				debug++
			}
		}
		assert.Equal(t, 1, debug)
	})
}

func TestLoadLimit(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"local_run_20.json": validSummary,
		"local_run_40.json": validSummary,
		"local_run_60.json": validSummary,
	})
	l, _ := newTestLoader(t, LoaderConfig{ResultsDir: dir, Limit: 2})
	b := l.Load()
	require.Len(t, b.Records, 2)
	assert.Equal(t, results.Rated(20), b.Records[0].Rate)
	assert.Equal(t, results.Rated(40), b.Records[1].Rate)
}

func TestLoadRejectsNonObjectDocuments(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a_null.json":     "null",
		"b_array.json":    "[1, 2]",
		"c_trailing.json": validSummary + " {}",
		"d_empty.json":    "",
		"e_ok.json":       validSummary + "\n",
	})
	l, _ := newTestLoader(t, LoaderConfig{ResultsDir: dir})
	b := l.Load()
	assert.Len(t, b.Records, 1)
	assert.Len(t, b.Skipped, 4)
}

func TestNewLoaderRejectsUnknownPolicy(t *testing.T) {
	_, err := NewLoader(LoaderConfig{Policy: "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")

	l, err := NewLoader(LoaderConfig{Policy: " Narrow "})
	require.NoError(t, err)
	assert.Equal(t, PolicyNarrow, l.policy)
}

func TestSaveSummary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"local_run_20.json": validSummary,
		"broken.json":       "{",
	})
	out := filepath.Join(t.TempDir(), "load.json")
	l, _ := newTestLoader(t, LoaderConfig{ResultsDir: dir, ResultsFile: out})
	defer func(fn func(string, ...interface{}) (int, error)) { printFn = fn }(printFn)
	printFn = func(string, ...interface{}) (int, error) { return 0, nil }

	b := l.Load()
	require.NoError(t, l.SaveSummary(b))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var got struct {
		ResultFormatVersion string
		RunnerConfig        LoaderConfig
		Totals              map[string]interface{}
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, LoadSummaryVersion, got.ResultFormatVersion)
	assert.Equal(t, dir, got.RunnerConfig.ResultsDir)
	assert.Equal(t, 2.0, got.Totals["filesSeen"])
	assert.Equal(t, 1.0, got.Totals["recordsLoaded"])
	assert.Equal(t, []interface{}{filepath.Join(dir, "broken.json")}, got.Totals["filesSkipped"])
}

func TestLoadKeepsRunWithOutOfRangeField(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"local_run_20.json": `{"metrics":{"http_req_duration":{"values":{"p(95)":100,"max":1e400}}}}`,
	})
	l, hook := newTestLoader(t, LoaderConfig{ResultsDir: dir})
	b := l.Load()

	require.Len(t, b.Records, 1)
	assert.Empty(t, b.Skipped)
	assert.Empty(t, warnings(hook))
	assert.Equal(t, 100.0, b.Records[0].P95)
	assert.Zero(t, b.Records[0].Max)
}
