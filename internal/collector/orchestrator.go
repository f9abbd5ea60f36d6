package collector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SystemCollector collects host gauges; satisfied by *sysstat.Collector.
type SystemCollector interface {
	Collect(ctx context.Context)
}

// Orchestrator runs one refresh cycle: system statistics first, then the
// hub collector. Cycles are serialized so overlapping scrapes cannot
// interleave their hub writes.
type Orchestrator struct {
	mu     sync.Mutex
	system SystemCollector
	hubs   *HubCollector
	logger *zap.Logger
}

// NewOrchestrator wires the two collectors into one refresh cycle.
func NewOrchestrator(sys SystemCollector, hubs *HubCollector, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		system: sys,
		hubs:   hubs,
		logger: logger,
	}
}

// Refresh runs one full cycle. It never fails as a whole; per-field and
// per-hub errors are absorbed by the collectors.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	o.system.Collect(ctx)
	o.hubs.Collect(ctx)
	o.logger.Debug("refresh cycle complete", zap.Duration("elapsed", time.Since(start)))
}

// Run refreshes on a fixed interval until the context is cancelled,
// decoupling scrape latency from vpncmd latency. An immediate first cycle
// runs so the first scrape after startup sees populated gauges.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) {
	o.logger.Info("background refresh loop starting", zap.Duration("interval", interval))
	o.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("background refresh loop stopping")
			return
		case <-ticker.C:
			o.Refresh(ctx)
		}
	}
}
