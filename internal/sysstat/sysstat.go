// Package sysstat refreshes the host-level gauges from OS statistics.
package sysstat

import (
	"context"

	"go.uber.org/zap"

	"github.com/HerbHall/softether-exporter/internal/metrics"
)

// LoadAvg holds the 1/5/15-minute load averages.
type LoadAvg struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// MemoryInfo holds total and free physical memory in bytes.
type MemoryInfo struct {
	Total uint64
	Free  uint64
}

// MountUsage holds capacity figures for one mounted filesystem.
type MountUsage struct {
	Total uint64
	Avail uint64
}

// InterfaceCounters holds packet counters for one network interface.
type InterfaceCounters struct {
	Name        string
	PacketsRecv uint64
	PacketsSent uint64
}

// Provider supplies raw OS statistics. Each method stands alone so a
// single failing figure never blocks the others.
type Provider interface {
	LoadAverage(ctx context.Context) (LoadAvg, error)
	Memory(ctx context.Context) (MemoryInfo, error)
	Mounts(ctx context.Context) ([]MountUsage, error)
	Uptime(ctx context.Context) (uint64, error)
	BootTime(ctx context.Context) (uint64, error)
	NetCounters(ctx context.Context) ([]InterfaceCounters, error)
}

// Collector writes host statistics into the metric registry.
type Collector struct {
	provider Provider
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewCollector creates a Collector. A nil provider selects the gopsutil
// based default.
func NewCollector(provider Provider, registry *metrics.Registry, logger *zap.Logger) *Collector {
	if provider == nil {
		provider = gopsutilProvider{}
	}
	return &Collector{
		provider: provider,
		registry: registry,
		logger:   logger,
	}
}

// Collect refreshes every host gauge best-effort. A figure whose OS call
// fails is skipped for this cycle and keeps its previous value; the
// remaining figures still refresh.
func (c *Collector) Collect(ctx context.Context) {
	if avg, err := c.provider.LoadAverage(ctx); err != nil {
		c.logger.Debug("load average unavailable", zap.Error(err))
	} else {
		c.registry.SetCPULoad(avg.Load1)
		c.registry.SetLoadAverage(metrics.Interval1Min, avg.Load1)
		c.registry.SetLoadAverage(metrics.Interval5Min, avg.Load5)
		c.registry.SetLoadAverage(metrics.Interval15Min, avg.Load15)
	}

	if mem, err := c.provider.Memory(ctx); err != nil {
		c.logger.Debug("memory stats unavailable", zap.Error(err))
	} else {
		c.registry.SetMemoryUsage(memoryUsedPercent(mem.Total, mem.Free))
	}

	if mounts, err := c.provider.Mounts(ctx); err != nil {
		c.logger.Debug("mount stats unavailable", zap.Error(err))
	} else {
		c.registry.SetFreeDiskSpace(diskUsedPercent(mounts))
	}

	if uptime, err := c.provider.Uptime(ctx); err != nil {
		c.logger.Debug("uptime unavailable", zap.Error(err))
	} else {
		c.registry.SetUptime(float64(uptime))
	}

	if boot, err := c.provider.BootTime(ctx); err != nil {
		c.logger.Debug("boot time unavailable", zap.Error(err))
	} else {
		c.registry.SetBootTime(float64(boot))
	}

	if counters, err := c.provider.NetCounters(ctx); err != nil {
		c.logger.Debug("network counters unavailable", zap.Error(err))
	} else {
		for _, nc := range counters {
			c.registry.SetNetworkPackets(nc.Name, float64(nc.PacketsRecv), float64(nc.PacketsSent))
		}
	}
}

// memoryUsedPercent returns (total-free)/total*100, or 0 when total is 0.
func memoryUsedPercent(total, free uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-free) / float64(total) * 100
}

// diskUsedPercent aggregates usage across all mounts, returning 0 when the
// summed capacity is 0 rather than dividing by zero.
func diskUsedPercent(mounts []MountUsage) float64 {
	var total, avail uint64
	for _, m := range mounts {
		total += m.Total
		avail += m.Avail
	}
	if total == 0 {
		return 0
	}
	return float64(total-avail) / float64(total) * 100
}
