package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics exposes counters/histograms for the chat and lead flows.
type RelayMetrics struct {
	chatTotal          *prometheus.CounterVec
	chatLatency        *prometheus.HistogramVec
	completionAttempts *prometheus.CounterVec
	completionLatency  *prometheus.HistogramVec
	leadForwards       *prometheus.CounterVec
	leadNotifications  *prometheus.CounterVec
	rateLimited        *prometheus.CounterVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentix",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat requests by outcome",
		}, []string{"status", "lead_capture"}),
		chatLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zentix",
			Subsystem: "chat",
			Name:      "reply_latency_seconds",
			Help:      "End-to-end latency of chat replies",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		completionAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentix",
			Subsystem: "llm",
			Name:      "completion_attempts_total",
			Help:      "Completion attempts by attempt number and outcome",
		}, []string{"attempt", "outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zentix",
			Subsystem: "llm",
			Name:      "completion_latency_seconds",
			Help:      "Latency of individual completion attempts",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"outcome"}),
		leadForwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentix",
			Subsystem: "leads",
			Name:      "forward_total",
			Help:      "Lead forwards to the spreadsheet webhook by outcome",
		}, []string{"status"}),
		leadNotifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentix",
			Subsystem: "leads",
			Name:      "notification_total",
			Help:      "Lead notification emails by outcome",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentix",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"backend"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.chatTotal,
		m.chatLatency,
		m.completionAttempts,
		m.completionLatency,
		m.leadForwards,
		m.leadNotifications,
		m.rateLimited,
	)
	return m
}

func (m *RelayMetrics) ObserveChat(status string, leadCapture bool, seconds float64) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(status, strconv.FormatBool(leadCapture)).Inc()
	m.chatLatency.WithLabelValues(status).Observe(seconds)
}

// ObserveCompletionAttempt satisfies llm.AttemptObserver.
func (m *RelayMetrics) ObserveCompletionAttempt(attempt int, err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.completionAttempts.WithLabelValues(strconv.Itoa(attempt), outcome).Inc()
	m.completionLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *RelayMetrics) ObserveLeadForward(status string) {
	if m == nil {
		return
	}
	m.leadForwards.WithLabelValues(status).Inc()
}

func (m *RelayMetrics) ObserveLeadNotification(status string) {
	if m == nil {
		return
	}
	m.leadNotifications.WithLabelValues(status).Inc()
}

func (m *RelayMetrics) ObserveRateLimited(backend string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(backend).Inc()
}
