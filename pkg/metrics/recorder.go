package metrics

import "fmt"

// Recorder records the per-request measurements §11.1 defines: a counter
// tagged by route/status/method, and a latency histogram.
type Recorder struct {
	provider Provider
}

// NewRecorder wraps a Provider for request-shaped metrics.
func NewRecorder(provider Provider) Recorder {
	return Recorder{provider: provider}
}

// RequestCompleted records one dispatched request.
func (r Recorder) RequestCompleted(route, method string, status int, latencyMs float64) {
	tags := []string{
		"route:" + route,
		"method:" + method,
		fmt.Sprintf("status:%d", status),
	}
	_ = r.provider.Count("rjs.requests", 1, tags)
	_ = r.provider.Histogram("rjs.latency_ms", latencyMs, tags)
}
