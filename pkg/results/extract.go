package results

import "math"

const (
	metricDuration = "http_req_duration"
	metricReqs     = "http_reqs"
	metricFailed   = "http_req_failed"
	metricIters    = "iterations"
)

var (
	keysP50   = []string{"p(50)", "med"}
	keysP95   = []string{"p(95)"}
	keysP99   = []string{"p(99)", "p(99.9)"}
	keysAvg   = []string{"avg"}
	keysMax   = []string{"max"}
	keysRate  = []string{"rate"}
	keysCount = []string{"count"}
	keysError = []string{"rate", "value"}
)

type Extractor struct {
	Lookups []Lookup
}

func NewExtractor() *Extractor {
	return &Extractor{Lookups: DefaultLookups}
}

// Extract is total: every field missing from doc, or of the wrong type,
// comes back as 0.
func (e *Extractor) Extract(doc Document) Metrics {
	metrics := object(doc, "metrics")
	dur := object(metrics, metricDuration)
	reqs := object(metrics, metricReqs)
	failed := object(metrics, metricFailed)

	m := Metrics{
		P50:          e.resolve(dur, keysP50),
		P95:          e.resolve(dur, keysP95),
		P99:          e.resolve(dur, keysP99),
		Avg:          e.resolve(dur, keysAvg),
		Max:          e.resolve(dur, keysMax),
		AchievedRate: e.resolve(reqs, keysRate),
		ErrorRate:    e.resolve(failed, keysError),
		Duration:     e.duration(doc, object(metrics, metricIters)),
	}
	m.TotalRequests = requestCount(e.resolve(reqs, keysCount))
	if m.ErrorRate > 1 {
		m.ErrorRate = 1
	}
	return m
}

func (e *Extractor) resolve(metric map[string]interface{}, keys []string) float64 {
	if metric == nil {
		return 0
	}
	for _, key := range keys {
		for _, l := range e.Lookups {
			if v, ok := l(metric, key); ok {
				if v < 0 {
					return 0
				}
				return v
			}
		}
	}
	return 0
}

func (e *Extractor) duration(doc Document, iterations map[string]interface{}) float64 {
	if ms, ok := number(object(doc, "state")["testRunDurationMs"]); ok && ms > 0 {
		return ms / 1000
	}
	rate := e.resolve(iterations, keysRate)
	if rate <= 0 {
		return 0
	}
	return e.resolve(iterations, keysCount) / rate
}

func requestCount(count float64) int64 {
	if count >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(count + 0.5)
}
