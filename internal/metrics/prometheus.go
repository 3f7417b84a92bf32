// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all service metrics.
type Registry struct {
	// API metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec

	// Auth metrics
	Logins       *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Mutation metrics
	LinkChanges    *prometheus.CounterVec
	ModeChanges    *prometheus.CounterVec
	BusyRejections *prometheus.CounterVec

	// System metrics
	Uptime prometheus.GaugeFunc
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_api_requests_total",
		Help: "Total API requests",
	}, []string{"method", "path", "status"})

	r.APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ifctl_api_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	r.Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_logins_total",
		Help: "Total login attempts",
	}, []string{"status"})

	r.AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_auth_failures_total",
		Help: "Total rejected bearer tokens",
	}, []string{"verdict"})

	r.LinkChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_link_changes_total",
		Help: "Total confirmed link-state changes",
	}, []string{"interface", "state"})

	r.ModeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_mode_changes_total",
		Help: "Total confirmed wireless mode changes",
	}, []string{"interface", "mode"})

	r.BusyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifctl_busy_rejections_total",
		Help: "Total mutations rejected because the interface was busy",
	}, []string{"interface"})

	start := time.Now()
	r.Uptime = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ifctl_uptime_seconds",
		Help: "Service uptime in seconds",
	}, func() float64 {
		return time.Since(start).Seconds()
	})

	return r
}

// RecordAPIRequest records an API request.
func (r *Registry) RecordAPIRequest(method, path string, status int, duration float64) {
	r.APIRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.APILatency.WithLabelValues(method, path).Observe(duration)
}

// RecordLogin records a login attempt by outcome.
func (r *Registry) RecordLogin(status string) {
	r.Logins.WithLabelValues(status).Inc()
}

// RecordAuthFailure records a rejected bearer token.
func (r *Registry) RecordAuthFailure(verdict string) {
	r.AuthFailures.WithLabelValues(verdict).Inc()
}

// RecordLinkChange records a confirmed link-state change.
func (r *Registry) RecordLinkChange(iface, state string) {
	r.LinkChanges.WithLabelValues(iface, state).Inc()
}

// RecordModeChange records a confirmed mode change.
func (r *Registry) RecordModeChange(iface, mode string) {
	r.ModeChanges.WithLabelValues(iface, mode).Inc()
}

// RecordBusyRejection records a mutation that failed fast on a held lock.
func (r *Registry) RecordBusyRejection(iface string) {
	r.BusyRejections.WithLabelValues(iface).Inc()
}
