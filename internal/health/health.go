package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"resala-backend/internal/store"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type HealthChecker struct {
	backend     store.Backend
	backendName string
	timeout     time.Duration
}

type HealthStatus struct {
	Status     string      `json:"status"`
	Store      StoreHealth `json:"store"`
	Goroutines int         `json:"goroutines"`
	Memory     MemoryStats `json:"memory"`
	Host       *HostMemory `json:"host,omitempty"`
}

type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
}

// HostMemory is machine-wide memory usage, omitted when the platform cannot report it
type HostMemory struct {
	TotalMB     float64 `json:"total_mb"`
	UsedMB      float64 `json:"used_mb"`
	UsedPercent float64 `json:"used_percent"`
}

type StoreHealth struct {
	Backend      string `json:"backend"`
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

func NewHealthChecker(backend store.Backend, backendName string) *HealthChecker {
	return &HealthChecker{backend: backend, backendName: backendName, timeout: 5 * time.Second}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	storeHealth := h.checkStore(ctx)

	status := StatusHealthy
	if storeHealth.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	// Get runtime stats for goroutine leak detection
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	result := HealthStatus{
		Status:     status,
		Store:      storeHealth,
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryStats{
			AllocMB:      float64(memStats.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(memStats.Sys) / 1024 / 1024,
			NumGC:        memStats.NumGC,
		},
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		result.Host = &HostMemory{
			TotalMB:     float64(vm.Total) / 1024 / 1024,
			UsedMB:      float64(vm.Used) / 1024 / 1024,
			UsedPercent: vm.UsedPercent,
		}
	}
	return result
}

func (h *HealthChecker) checkStore(ctx context.Context) StoreHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.backend.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return StoreHealth{
			Backend:      h.backendName,
			Status:       StatusUnhealthy,
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return StoreHealth{
		Backend:      h.backendName,
		Status:       StatusHealthy,
		ResponseTime: responseTime,
	}
}
