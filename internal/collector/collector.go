// Package collector drives one refresh cycle: host statistics first, then
// every configured hub in order.
package collector

import (
	"context"

	"go.uber.org/zap"

	"github.com/HerbHall/softether-exporter/internal/config"
	"github.com/HerbHall/softether-exporter/internal/metrics"
	"github.com/HerbHall/softether-exporter/internal/softether"
)

// StatusReader queries the current status of one hub.
type StatusReader interface {
	HubStatus(ctx context.Context, hub, hubPassword string) (softether.HubStatus, error)
}

// HubCollector refreshes the per-hub gauges from the status reader.
type HubCollector struct {
	reader   StatusReader
	hubs     []config.Hub
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewHubCollector creates a HubCollector for the configured hub list.
func NewHubCollector(reader StatusReader, hubs []config.Hub, registry *metrics.Registry, logger *zap.Logger) *HubCollector {
	return &HubCollector{
		reader:   reader,
		hubs:     hubs,
		registry: registry,
		logger:   logger,
	}
}

// Collect queries every hub in configuration order. A failing hub is marked
// down and logged; its other gauges keep their last successful values and
// the remaining hubs are still queried.
func (c *HubCollector) Collect(ctx context.Context) {
	for _, hub := range c.hubs {
		status, err := c.reader.HubStatus(ctx, hub.Name, hub.Password)
		if err != nil {
			c.registry.MarkHubDown(hub.Name)
			c.logger.Warn("hub status read failed",
				zap.String("hub", hub.Name),
				zap.Error(err),
			)
			continue
		}
		c.registry.SetHubStatus(hub.Name, status)
	}
}
