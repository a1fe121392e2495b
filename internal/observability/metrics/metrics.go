package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment flows.
type BookingMetrics struct {
	appointmentsTotal *prometheus.CounterVec
	transitionsTotal  *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Total appointment booking requests",
		}, []string{"status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Total appointment status transitions",
		}, []string{"to_status", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "operation_latency_seconds",
			Help:      "Latency of appointment operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal, m.transitionsTotal, m.requestLatency)
	return m
}

func (m *BookingMetrics) ObserveCreate(status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveTransition(toStatus, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(toStatus, status).Inc()
}

func (m *BookingMetrics) ObserveLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(operation).Observe(seconds)
}
