package results

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

type Mode uint8

const (
	// Permissive classifies every file by workload; marker workloads get a
	// NotApplicable rate.
	Permissive Mode = iota
	// Strict only accepts a numeric rate; any other outcome is Unparsed.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "permissive"
}

const (
	markerHomeMeta   = "home_meta"
	markerSearchOnly = "search_only"
	markerSoak       = "soaktest"
)

var (
	envPrefixRe = regexp.MustCompile(`(?i)^(local|aws)[_-]?`)
	runRe       = regexp.MustCompile(`run_(\d+)`)
	envRunRe    = regexp.MustCompile(`(?i)(local|aws)[_-]run_\d+`)
	soakLenRe   = regexp.MustCompile(`(^|[_-])\d+min$`)
)

type Classifier struct {
	Mode Mode
}

func NewClassifier(mode Mode) *Classifier {
	return &Classifier{Mode: mode}
}

// Classify never inspects file contents and never fails: anything it cannot
// recognise comes back as unknown with an Unparsed or NotApplicable rate.
func (c *Classifier) Classify(filename string) ClassifiedRun {
	stem := fileStem(filename)

	env, remainder := splitEnvPrefix(stem)
	if env == EnvUnknown && c.Mode == Strict {
		if m := envRunRe.FindStringSubmatch(stem); m != nil {
			env = Environment(strings.ToLower(m[1]))
		}
	}

	run := ClassifiedRun{Environment: env}
	run.Workload, run.Rate = classifyRemainder(strings.ToLower(remainder))
	if c.Mode == Strict && !run.Rate.IsRated() {
		run.Rate = Unparsed()
	}
	return run
}

func fileStem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func splitEnvPrefix(stem string) (Environment, string) {
	loc := envPrefixRe.FindStringSubmatchIndex(stem)
	if loc == nil {
		return EnvUnknown, stem
	}
	env := Environment(strings.ToLower(stem[loc[2]:loc[3]]))
	return env, stem[loc[1]:]
}

func classifyRemainder(remainder string) (WorkloadType, Rate) {
	switch {
	case strings.Contains(remainder, markerHomeMeta):
		return WorkloadHomeMeta, NotApplicable()
	case strings.Contains(remainder, markerSearchOnly):
		return WorkloadSearch, NotApplicable()
	case strings.HasPrefix(remainder, markerSoak):
		return WorkloadSoak, NotApplicable()
	}

	m := runRe.FindStringSubmatch(remainder)
	if m == nil {
		// Soak runs are named by their length, e.g. local_30min.
		if soakLenRe.MatchString(remainder) {
			return WorkloadSoak, NotApplicable()
		}
		return WorkloadUnknown, Unparsed()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return WorkloadTripMatching, Unparsed()
	}
	return WorkloadTripMatching, Rated(n)
}
