package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fvx_active_calls",
		Help: "Number of active call sessions",
	})

	totalCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fvx_calls_total",
		Help: "Total number of calls handled",
	})

	callDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fvx_call_duration_seconds",
		Help:    "Duration of calls in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	digitsRecognized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fvx_digits_recognized_total",
		Help: "Recognized DTMF digits by recognition source",
	}, []string{"source"}) // "signaled" or "detected"

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fvx_auth_attempts_total",
		Help: "PIN authentication attempts by outcome",
	}, []string{"outcome"}) // "success" or "failure"

	actionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fvx_action_runs_total",
		Help: "Action dispatch attempts by outcome",
	}, []string{"outcome"}) // "ok", "unauthorized", "unknown"

	audioBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fvx_audio_bytes_total",
		Help: "Audio bytes moved through the transport",
	}, []string{"direction"}) // "in" or "out"
)

// CallMetrics tracks metrics for a single call session.
type CallMetrics struct {
	startTime time.Time
}

// NewCallMetrics registers the start of a call and returns its tracker.
func NewCallMetrics() *CallMetrics {
	activeCalls.Inc()
	totalCalls.Inc()
	return &CallMetrics{startTime: time.Now()}
}

// CallEnded records the end of the call.
func (m *CallMetrics) CallEnded() {
	activeCalls.Dec()
	callDuration.Observe(time.Since(m.startTime).Seconds())
}

// DigitRecognized counts one recognized digit by source.
func DigitRecognized(source string) {
	digitsRecognized.WithLabelValues(source).Inc()
}

// AuthAttempt counts one authentication attempt.
func AuthAttempt(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	authAttempts.WithLabelValues(outcome).Inc()
}

// ActionRun counts one action dispatch by outcome.
func ActionRun(outcome string) {
	actionRuns.WithLabelValues(outcome).Inc()
}

// AudioBytes counts transported audio by direction.
func AudioBytes(direction string, n int) {
	audioBytes.WithLabelValues(direction).Add(float64(n))
}
