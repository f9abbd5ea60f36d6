package sysstat

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"
)

// gopsutilProvider reads real OS statistics through gopsutil.
type gopsutilProvider struct{}

// Compile-time guard.
var _ Provider = gopsutilProvider{}

func (gopsutilProvider) LoadAverage(ctx context.Context) (LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAvg{}, err
	}
	return LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (gopsutilProvider) Memory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, err
	}
	return MemoryInfo{Total: vm.Total, Free: vm.Free}, nil
}

func (gopsutilProvider) Mounts(ctx context.Context) ([]MountUsage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	mounts := make([]MountUsage, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			// Pseudo filesystems and stale mounts fail stat; skip them.
			continue
		}
		mounts = append(mounts, MountUsage{Total: usage.Total, Avail: usage.Free})
	}
	return mounts, nil
}

func (gopsutilProvider) Uptime(ctx context.Context) (uint64, error) {
	return host.UptimeWithContext(ctx)
}

func (gopsutilProvider) BootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

func (gopsutilProvider) NetCounters(ctx context.Context) ([]InterfaceCounters, error) {
	stats, err := gopsnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	counters := make([]InterfaceCounters, 0, len(stats))
	for _, s := range stats {
		counters = append(counters, InterfaceCounters{
			Name:        s.Name,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
		})
	}
	return counters, nil
}
