package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"resala-backend/internal/logging"
)

type MonitoringService struct {
	metrics *Metrics
}

func NewMonitoringService(metrics *Metrics) *MonitoringService {
	return &MonitoringService{metrics: metrics}
}

// StartCollection samples host metrics every interval until ctx is done
func (s *MonitoringService) StartCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.collect()
			}
		}
	}()
}

func (s *MonitoringService) collect() {
	logger := logging.NewComponentLogger("monitoring")

	if cpuPercents, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercents) > 0 {
		s.metrics.cpuPercent.Set(cpuPercents[0])
	} else if err != nil {
		logger.Debug().Err(err).Msg("cpu sample failed")
	}

	if memStats, err := mem.VirtualMemory(); err == nil {
		s.metrics.memUsed.Set(float64(memStats.Used))
		s.metrics.memTotal.Set(float64(memStats.Total))
	}

	if diskStats, err := disk.Usage("/"); err == nil {
		s.metrics.diskUsed.Set(float64(diskStats.Used))
		s.metrics.diskTotal.Set(float64(diskStats.Total))
	}
}

// Middleware records request count and latency per route template
func (s *MonitoringService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := routeTemplate(r)
		s.metrics.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
		s.metrics.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routeTemplate keeps label cardinality bounded: /visit/{family_number} rather than /visit/17
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "other"
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
