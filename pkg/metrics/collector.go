package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes counters for the alerting pipeline on a private
// Prometheus registry. A nil Collector is valid and records nothing, so
// metrics stay optional for library users of the alert service.
type Collector struct {
	registry *prometheus.Registry

	alertsTriggered  *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	channelSends     *prometheus.CounterVec
}

// NewCollector creates a collector with all pipeline metrics registered
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	alertsTriggered := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskhub",
			Name:      "alerts_triggered_total",
			Help:      "Total number of alerts created after passing policy checks",
		},
		[]string{"severity", "error_type"},
	)

	alertsSuppressed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskhub",
			Name:      "alerts_suppressed_total",
			Help:      "Total number of submissions suppressed by policy",
		},
		[]string{"reason"},
	)

	channelSends := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskhub",
			Name:      "channel_sends_total",
			Help:      "Total number of channel delivery attempts",
		},
		[]string{"channel", "status"},
	)

	collectors := []prometheus.Collector{alertsTriggered, alertsSuppressed, channelSends}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return &Collector{
		registry:         registry,
		alertsTriggered:  alertsTriggered,
		alertsSuppressed: alertsSuppressed,
		channelSends:     channelSends,
	}, nil
}

// RecordTriggered counts one created alert
func (c *Collector) RecordTriggered(severity, errorType string) {
	if c == nil {
		return
	}
	c.alertsTriggered.WithLabelValues(severity, errorType).Inc()
}

// RecordSuppressed counts one submission suppressed by policy
func (c *Collector) RecordSuppressed(reason string) {
	if c == nil {
		return
	}
	c.alertsSuppressed.WithLabelValues(reason).Inc()
}

// RecordChannelSend counts one channel delivery attempt
func (c *Collector) RecordChannelSend(channel string, success bool) {
	if c == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	c.channelSends.WithLabelValues(channel, status).Inc()
}

// Handler returns the exposition handler for the private registry
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the internal registry for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
