package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for lead capture and delivery.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	dispatchTotal    *prometheus.CounterVec
	dispatchLatency  *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lp",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by outcome",
		}, []string{"status"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lp",
			Subsystem: "leads",
			Name:      "dispatch_total",
			Help:      "Lead deliveries per destination",
		}, []string{"destination", "status"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lp",
			Subsystem: "leads",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of a single lead delivery",
			Buckets:   prometheus.DefBuckets,
		}, []string{"destination"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.dispatchTotal, m.dispatchLatency)
	return m
}

// ObserveSubmission counts a handled submission: accepted, invalid, error or method_not_allowed.
func (m *LeadMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveDispatch(destination string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "delivered"
	if !ok {
		status = "failed"
	}
	m.dispatchTotal.WithLabelValues(destination, status).Inc()
	m.dispatchLatency.WithLabelValues(destination).Observe(seconds)
}
