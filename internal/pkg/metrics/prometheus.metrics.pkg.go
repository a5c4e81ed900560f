package metrics

import (
	"time"

	"refund-relay/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink with the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	targetAttemptsTotal *prometheus.CounterVec
	targetDuration      *prometheus.HistogramVec
	dispatchesTotal     *prometheus.CounterVec
	dispatchDuration    prometheus.Histogram
	dispatchesInFlight  prometheus.Gauge

	submissionsRejectedTotal *prometheus.CounterVec
	sessionsActive           prometheus.Gauge
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initDispatcherMetrics(reg)
	s.initWizardMetrics(reg)
	return s
}

func (s *PrometheusSink) initDispatcherMetrics(reg prometheus.Registerer) {
	s.targetAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_dispatch_target_attempts_total",
		Help: "Total number of per-target delivery attempts by result.",
	}, []string{"target", "result"})

	s.targetDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refund_dispatch_target_duration_seconds",
		Help:    "Per-target delivery latency in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"target"})

	s.dispatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_dispatches_total",
		Help: "Total number of dispatch reports by overall status.",
	}, []string{"status"})

	s.dispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "refund_dispatch_duration_seconds",
		Help:    "Wall time of a whole fan-out in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	s.dispatchesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "refund_dispatches_in_flight",
		Help: "Number of fan-outs currently running.",
	})

	s.register(reg, s.targetAttemptsTotal, "refund_dispatch_target_attempts_total")
	s.register(reg, s.targetDuration, "refund_dispatch_target_duration_seconds")
	s.register(reg, s.dispatchesTotal, "refund_dispatches_total")
	s.register(reg, s.dispatchDuration, "refund_dispatch_duration_seconds")
	s.register(reg, s.dispatchesInFlight, "refund_dispatches_in_flight")
}

func (s *PrometheusSink) initWizardMetrics(reg prometheus.Registerer) {
	s.submissionsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_submissions_rejected_total",
		Help: "Submissions refused before dispatch, by reason.",
	}, []string{"reason"})

	s.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "refund_sessions_active",
		Help: "Open wizard sessions.",
	})

	s.register(reg, s.submissionsRejectedTotal, "refund_submissions_rejected_total")
	s.register(reg, s.sessionsActive, "refund_sessions_active")
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		logger.Warning.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) TargetAttemptCompleted(target, result string, duration time.Duration) {
	s.targetAttemptsTotal.WithLabelValues(target, result).Inc()
	s.targetDuration.WithLabelValues(target).Observe(duration.Seconds())
}

func (s *PrometheusSink) DispatchCompleted(status string, duration time.Duration) {
	s.dispatchesTotal.WithLabelValues(status).Inc()
	s.dispatchDuration.Observe(duration.Seconds())
}

func (s *PrometheusSink) DispatchesInFlightIncr() {
	s.dispatchesInFlight.Inc()
}

func (s *PrometheusSink) DispatchesInFlightDecr() {
	s.dispatchesInFlight.Dec()
}

func (s *PrometheusSink) SubmissionRejected(reason string) {
	s.submissionsRejectedTotal.WithLabelValues(reason).Inc()
}

func (s *PrometheusSink) SessionsActive(count int) {
	s.sessionsActive.Set(float64(count))
}
