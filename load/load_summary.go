package load

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/pkg/results"
)

const LoadSummaryVersion = "0.1"

// LoadSummary records what one load pass read, in the same shape the
// benchmark runners use for their results files.
type LoadSummary struct {
	ResultFormatVersion string `json:"ResultFormatVersion"`

	RunnerConfig LoaderConfig `json:"RunnerConfig"`

	StartTime      int64 `json:"StartTime"`
	EndTime        int64 `json:"EndTime"`
	DurationMillis int64 `json:"DurationMillis"`

	Totals map[string]interface{} `json:"Totals"`
}

func (l *Loader) Summary(b *Batch) LoadSummary {
	perEnv := make(map[results.Environment]int)
	perWorkload := make(map[results.WorkloadType]int)
	for _, r := range b.Records {
		perEnv[r.Environment]++
		perWorkload[r.Workload]++
	}

	skipped := make([]string, 0, len(b.Skipped))
	for _, s := range b.Skipped {
		skipped = append(skipped, s.Path)
	}

	totals := make(map[string]interface{})
	totals["filesSeen"] = b.Seen
	totals["recordsLoaded"] = len(b.Records)
	totals["recordsFiltered"] = b.Filtered
	totals["filesSkipped"] = skipped
	totals["environments"] = perEnv
	totals["workloads"] = perWorkload

	return LoadSummary{
		ResultFormatVersion: LoadSummaryVersion,
		RunnerConfig:        l.LoaderConfig,
		StartTime:           b.Started.Unix(),
		EndTime:             b.Finished.Unix(),
		DurationMillis:      b.Finished.Sub(b.Started).Milliseconds(),
		Totals:              totals,
	}
}

func (l *Loader) SaveSummary(b *Batch) error {
	if l.ResultsFile == "" {
		return nil
	}
	_, _ = printFn("Saving load summary json file to %s\n", l.ResultsFile)
	file, err := json.MarshalIndent(l.Summary(b), "", " ")
	if err != nil {
		return errors.Wrap(err, "cannot encode load summary")
	}
	if err := os.WriteFile(l.ResultsFile, file, 0644); err != nil {
		return errors.Wrapf(err, "cannot write load summary %s", l.ResultsFile)
	}
	return nil
}
