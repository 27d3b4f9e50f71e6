package report

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/uitgo/loadreport/internal/utils"
	"github.com/uitgo/loadreport/pkg/results"
	"github.com/uitgo/loadreport/pkg/series"
)

const (
	DefaultReportDir = "loadtests/report"

	errUnknownEnvFmt = "unknown %s: '%s' (choose from %s)"
)

type Config struct {
	ReportDir string `yaml:"report-dir" mapstructure:"report-dir" json:"report-dir"`
	BaseEnv   string `yaml:"base-env" mapstructure:"base-env" json:"base-env"`
	OtherEnv  string `yaml:"other-env" mapstructure:"other-env" json:"other-env"`
	Workload  string `yaml:"workload" mapstructure:"workload" json:"workload"`
	Metric    string `yaml:"metric" mapstructure:"metric" json:"metric"`
	NoCharts  bool   `yaml:"no-charts" mapstructure:"no-charts" json:"no-charts"`
}

func (c Config) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("report-dir", DefaultReportDir, "Directory the report artifacts are written to")
	fs.String("base-env", string(results.EnvLocal), "Baseline environment of comparisons")
	fs.String("other-env", string(results.EnvAWS), "Environment compared against the baseline")
	fs.String("workload", string(results.WorkloadTripMatching), "Workload type charted against target rate")
	fs.String("metric", string(series.P95), fmt.Sprintf("Metric charted against target rate (choose from %s)", metricChoices()))
	fs.Bool("no-charts", false, "Do not render PNG charts next to the text reports")
}

func metricChoices() string {
	var names []string
	for _, m := range series.Metrics() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func envChoices() []string {
	names := make([]string, len(results.KnownEnvironments))
	for i, e := range results.KnownEnvironments {
		names[i] = string(e)
	}
	return names
}

// withDefaults fills empty fields and lower-cases the environments.
func (c Config) withDefaults() Config {
	if c.ReportDir == "" {
		c.ReportDir = DefaultReportDir
	}
	if c.BaseEnv == "" {
		c.BaseEnv = string(results.EnvLocal)
	}
	if c.OtherEnv == "" {
		c.OtherEnv = string(results.EnvAWS)
	}
	if c.Workload == "" {
		c.Workload = string(results.WorkloadTripMatching)
	}
	if c.Metric == "" {
		c.Metric = string(series.P95)
	}
	c.BaseEnv = strings.ToLower(strings.TrimSpace(c.BaseEnv))
	c.OtherEnv = strings.ToLower(strings.TrimSpace(c.OtherEnv))
	return c
}

// Validate rejects environments outside the known set and unknown metrics.
func (c Config) Validate() error {
	choices := envChoices()
	for _, env := range []struct{ flag, value string }{{"base-env", c.BaseEnv}, {"other-env", c.OtherEnv}} {
		if !utils.IsIn(env.value, choices) {
			return errors.Errorf(errUnknownEnvFmt, env.flag, env.value, strings.Join(choices, ", "))
		}
	}
	if _, err := series.ParseMetric(c.Metric); err != nil {
		return errors.Wrap(err, "invalid chart metric")
	}
	return nil
}

func (c Config) base() results.Environment {
	return results.ParseEnvironment(c.BaseEnv)
}

func (c Config) other() results.Environment {
	return results.ParseEnvironment(c.OtherEnv)
}

func (c Config) workload() results.WorkloadType {
	return results.WorkloadType(c.Workload)
}

func (c Config) metric() series.Metric {
	return series.Metric(c.Metric)
}
