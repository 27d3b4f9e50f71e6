package load

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/uitgo/loadreport/internal/utils"
	"github.com/uitgo/loadreport/pkg/results"
)

const (
	errUnknownPolicyFmt = "unknown policy: '%s' (choose from %s)"
	resultExt           = ".json"
	rateMarker          = "run_"
)

// Policy selects which files a Loader reads and which records it keeps.
type Policy string

const (
	// PolicyBroad reads every *.json and classifies by workload type.
	PolicyBroad Policy = "broad"
	// PolicyNarrow reads *run_*.json and keeps only records with a target rate.
	PolicyNarrow Policy = "narrow"
)

var PolicyChoices = []string{string(PolicyBroad), string(PolicyNarrow)}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !utils.IsIn(s, PolicyChoices) {
		return "", errors.Errorf(errUnknownPolicyFmt, s, strings.Join(PolicyChoices, ", "))
	}
	return Policy(s), nil
}

func (p Policy) Accept(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), resultExt) {
		return false
	}
	if p == PolicyNarrow {
		return strings.Contains(strings.ToLower(name), rateMarker)
	}
	return true
}

func (p Policy) Mode() results.Mode {
	if p == PolicyNarrow {
		return results.Strict
	}
	return results.Permissive
}

func (p Policy) Keep(run results.ClassifiedRun) bool {
	if p == PolicyNarrow {
		return run.Rate.IsRated()
	}
	return true
}
