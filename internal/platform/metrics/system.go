package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage",
		},
		[]string{"core"},
	)

	SystemMemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_memory_usage_bytes",
			Help: "Current memory usage in bytes",
		},
		[]string{"type"},
	)
)

// StartSystemCollector samples host CPU and memory every interval until ctx
// is cancelled.
func StartSystemCollector(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := collectSystem(); err != nil {
					logger.Debug().Err(err).Msg("system metrics collection failed")
				}
			}
		}
	}()
}

func collectSystem() error {
	perCPU, err := cpu.Percent(0, true)
	if err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	for i, pct := range perCPU {
		SystemCPUUsage.WithLabelValues(fmt.Sprintf("cpu%d", i)).Set(pct)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("virtual memory: %w", err)
	}
	SystemMemoryUsage.WithLabelValues("total").Set(float64(vm.Total))
	SystemMemoryUsage.WithLabelValues("available").Set(float64(vm.Available))
	SystemMemoryUsage.WithLabelValues("used").Set(float64(vm.Used))
	SystemMemoryUsage.WithLabelValues("free").Set(float64(vm.Free))
	return nil
}
