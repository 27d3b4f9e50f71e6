package results

import (
	"strconv"
	"strings"
)

type Environment string

const (
	EnvLocal   Environment = "local"
	EnvAWS     Environment = "aws"
	EnvUnknown Environment = "unknown"
)

var KnownEnvironments = []Environment{EnvLocal, EnvAWS}

// ParseEnvironment is case-insensitive; anything but a known environment is
// EnvUnknown.
func ParseEnvironment(s string) Environment {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range KnownEnvironments {
		if string(e) == s {
			return e
		}
	}
	return EnvUnknown
}

// Title is the label used in rendered reports, e.g. "AWS" or "Local".
func (e Environment) Title() string {
	switch e {
	case EnvAWS:
		return "AWS"
	case EnvLocal:
		return "Local"
	}
	return "Unknown"
}

type WorkloadType string

const (
	WorkloadTripMatching WorkloadType = "trip_matching"
	WorkloadHomeMeta     WorkloadType = "home_meta"
	WorkloadSearch       WorkloadType = "search"
	WorkloadSoak         WorkloadType = "soak"
	WorkloadUnknown      WorkloadType = "unknown"
)

type RateKind uint8

const (
	// RateUnparsed means the filename did not yield a rate where one was expected.
	RateUnparsed RateKind = iota
	// RateNotApplicable means the workload has no rate axis (home_meta, search, soak).
	RateNotApplicable
	RateRated
)

// Rate is a target request rate that keeps "no rate axis" and "parse failed"
// apart instead of folding both into 0 or -1.
type Rate struct {
	kind  RateKind
	value int
}

func Rated(n int) Rate {
	if n < 0 {
		return Unparsed()
	}
	return Rate{kind: RateRated, value: n}
}

func NotApplicable() Rate {
	return Rate{kind: RateNotApplicable}
}

func Unparsed() Rate {
	return Rate{kind: RateUnparsed}
}

func (r Rate) Kind() RateKind {
	return r.kind
}

func (r Rate) IsRated() bool {
	return r.kind == RateRated
}

func (r Rate) Value() (int, bool) {
	return r.value, r.kind == RateRated
}

// SortKey orders rated values ascending and puts everything else first.
func (r Rate) SortKey() int {
	if r.kind == RateRated {
		return r.value
	}
	return -1
}

func (r Rate) String() string {
	switch r.kind {
	case RateRated:
		return strconv.Itoa(r.value)
	case RateNotApplicable:
		return "n/a"
	}
	return "?"
}

type ClassifiedRun struct {
	Environment Environment
	Workload    WorkloadType
	Rate        Rate
}
