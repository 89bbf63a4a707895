package metrics

import "github.com/prometheus/client_golang/prometheus"

// SurveyMetrics exposes counters/histograms for the survey wizard.
type SurveyMetrics struct {
	navigationTotal   *prometheus.CounterVec
	submissionsTotal  *prometheus.CounterVec
	submissionLatency prometheus.Histogram
	activeSessions    prometheus.Gauge
}

func NewSurveyMetrics(reg prometheus.Registerer) *SurveyMetrics {
	m := &SurveyMetrics{
		navigationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "survey",
			Subsystem: "wizard",
			Name:      "navigation_total",
			Help:      "Total step navigation attempts",
		}, []string{"action", "result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "survey",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total submit attempts by outcome",
		}, []string{"outcome"}),
		submissionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "survey",
			Subsystem: "wizard",
			Name:      "submission_latency_seconds",
			Help:      "Latency of submissions to the sheet endpoint",
			Buckets:   prometheus.DefBuckets,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "survey",
			Subsystem: "wizard",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.navigationTotal, m.submissionsTotal, m.submissionLatency, m.activeSessions)
	return m
}

// ObserveNavigation records an advance or retreat. moved is false when the
// step was blocked by validation or already at the boundary.
func (m *SurveyMetrics) ObserveNavigation(action string, moved bool) {
	if m == nil {
		return
	}
	result := "blocked"
	if moved {
		result = "moved"
	}
	m.navigationTotal.WithLabelValues(action, result).Inc()
}

func (m *SurveyMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	if outcome == "succeeded" || outcome == "failed" {
		m.submissionLatency.Observe(seconds)
	}
}

func (m *SurveyMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
