package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking intake flow.
type BookingMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	stepFailuresTotal *prometheus.CounterVec
	processingSeconds prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cartercar",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Total booking requests by final status",
		}, []string{"status"}),
		stepFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cartercar",
			Subsystem: "booking",
			Name:      "step_failures_total",
			Help:      "Total processing step failures",
		}, []string{"step"}),
		processingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cartercar",
			Subsystem: "booking",
			Name:      "processing_seconds",
			Help:      "Latency of end-to-end booking processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.stepFailuresTotal, m.processingSeconds)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
	m.processingSeconds.Observe(seconds)
}

func (m *BookingMetrics) ObserveStepFailure(step string) {
	if m == nil {
		return
	}
	m.stepFailuresTotal.WithLabelValues(step).Inc()
}
