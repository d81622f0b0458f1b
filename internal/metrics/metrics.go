// Package metrics exposes workflow counters to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use before Register and on a nil receiver; recording is
// a no-op until collectors exist.
type Metrics struct {
	notificationsCreated prometheus.Counter
	deliveryFailures     *prometheus.CounterVec
	decisions            *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
	realtimeClients      prometheus.Gauge
	jobRuns              *prometheus.CounterVec

	registerOnce sync.Once
}

func New() *Metrics {
	return &Metrics{}
}

// Register creates the collectors on registry. Subsequent calls are no-ops.
func (m *Metrics) Register(registry prometheus.Registerer) {
	if m == nil || registry == nil {
		return
	}

	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.notificationsCreated = factory.NewCounter(prometheus.CounterOpts{
			Name: "clubhub_notifications_created_total",
			Help: "Total number of notifications written to user inboxes",
		})

		m.deliveryFailures = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_notification_delivery_failures_total",
			Help: "Total number of failed notification deliveries by channel",
		}, []string{"channel"})

		m.decisions = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_approval_decisions_total",
			Help: "Total number of administrator decisions by resource and outcome",
		}, []string{"resource", "outcome"})

		m.rpcDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubhub_rpc_duration_seconds",
			Help:    "Latency of gRPC calls by method and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"})

		m.realtimeClients = factory.NewGauge(prometheus.GaugeOpts{
			Name: "clubhub_realtime_clients",
			Help: "Number of connected notification stream clients",
		})

		m.jobRuns = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_job_runs_total",
			Help: "Total number of scheduled job runs by job and result",
		}, []string{"job", "result"})
	})
}

func (m *Metrics) NotificationsCreated(n int) {
	if m == nil || m.notificationsCreated == nil {
		return
	}
	m.notificationsCreated.Add(float64(n))
}

func (m *Metrics) DeliveryFailed(channel string) {
	if m == nil || m.deliveryFailures == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(channel).Inc()
}

// Decision records an approve or reject of a club or event.
func (m *Metrics) Decision(resource, outcome string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	if m == nil || m.rpcDuration == nil {
		return
	}
	m.rpcDuration.WithLabelValues(method, code).Observe(elapsed.Seconds())
}

func (m *Metrics) SetRealtimeClients(n int) {
	if m == nil || m.realtimeClients == nil {
		return
	}
	m.realtimeClients.Set(float64(n))
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil || m.jobRuns == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}
