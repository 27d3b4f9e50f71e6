package results

// Metrics holds the figures extracted from one k6 summary export.
// Latencies are milliseconds and 0 means the field was absent from the
// document. ErrorRate is a fraction in [0,1].
type Metrics struct {
	P50           float64
	P95           float64
	P99           float64
	Avg           float64
	Max           float64
	AchievedRate  float64
	TotalRequests int64
	ErrorRate     float64
	Duration      float64 // seconds
}

func (m Metrics) ErrorPercent() float64 {
	return m.ErrorRate * 100
}

type Record struct {
	ClassifiedRun
	Metrics

	Source string
}
