package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resala"

// Metrics owns a dedicated registry and every collector the service exports
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	storeCalls    *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	visits        prometheus.Counter
	families      prometheus.Counter
	logins        *prometheus.CounterVec

	cpuPercent prometheus.Gauge
	memUsed    prometheus.Gauge
	memTotal   prometheus.Gauge
	diskUsed   prometheus.Gauge
	diskTotal  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "store", Name: "calls_total",
			Help: "Record store calls by table, operation and result",
		}, []string{"table", "op", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "store", Name: "call_duration_seconds",
			Help:    "Record store call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"table", "op"}),
		visits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "visits_recorded_total",
			Help: "Visits appended to the Visits table",
		}),
		families: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "families_added_total",
			Help: "Families appended to the Families table",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "host", Name: "cpu_percent", Help: "Host CPU usage",
		}),
		memUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "host", Name: "memory_used_bytes", Help: "Host memory in use",
		}),
		memTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "host", Name: "memory_total_bytes", Help: "Host memory size",
		}),
		diskUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "host", Name: "disk_used_bytes", Help: "Root filesystem usage",
		}),
		diskTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "host", Name: "disk_total_bytes", Help: "Root filesystem size",
		}),
	}

	m.Registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.storeCalls, m.storeDuration,
		m.visits, m.families, m.logins,
		m.cpuPercent, m.memUsed, m.memTotal, m.diskUsed, m.diskTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveStoreCall records one record-store call
func (m *Metrics) ObserveStoreCall(table, op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeCalls.WithLabelValues(table, op, result).Inc()
	m.storeDuration.WithLabelValues(table, op).Observe(d.Seconds())
}

func (m *Metrics) VisitRecorded() { m.visits.Inc() }

func (m *Metrics) FamilyAdded() { m.families.Inc() }

// LoginAttempt counts a login by result: success, failure or limited
func (m *Metrics) LoginAttempt(result string) {
	m.logins.WithLabelValues(result).Inc()
}
