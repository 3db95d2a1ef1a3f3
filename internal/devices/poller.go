package devices

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/metrics"
	"go.uber.org/zap"
)

// Poller sweeps all devices and appends telemetry snapshots. It never
// touches profiles or accounts; a failed collection only logs and marks
// the device as errored.
type Poller struct {
	devices   DeviceRepository
	metrics   MetricRepository
	collector Collector
	workers   int
}

func NewPoller(deviceRepo DeviceRepository, metricRepo MetricRepository, collector Collector, workers int) *Poller {
	if workers <= 0 {
		workers = 16
	}
	return &Poller{
		devices:   deviceRepo,
		metrics:   metricRepo,
		collector: collector,
		workers:   workers,
	}
}

// PollAll collects one snapshot from every registered device, fanned out
// over a bounded worker pool.
func (p *Poller) PollAll(ctx context.Context) {
	started := time.Now()
	defer func() { metrics.PollDuration.Observe(time.Since(started).Seconds()) }()

	devices, err := p.devices.List(ctx)
	if err != nil {
		zap.L().Error("poll sweep: list devices failed", zap.Error(err))
		return
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		zap.L().Error("poll sweep: worker pool init failed", zap.Error(err))
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range devices {
		device := devices[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			p.pollOne(ctx, device)
		}); err != nil {
			wg.Done()
			zap.L().Error("poll sweep: submit failed",
				zap.Int64("device_id", device.ID), zap.Error(err))
		}
	}
	wg.Wait()
}

func (p *Poller) pollOne(ctx context.Context, device domain.NetDevice) {
	snapshot, err := p.collector.Collect(ctx, &device)
	now := time.Now()
	if err != nil {
		zap.L().Warn("telemetry collection failed",
			zap.Int64("device_id", device.ID),
			zap.String("ipaddr", device.Ipaddr),
			zap.Error(err))
		_ = p.devices.Updates(ctx, device.ID, map[string]interface{}{
			"status":     domain.DeviceStatusError,
			"updated_at": now,
		})
		return
	}

	if snapshot.System != nil {
		if err := p.metrics.AddSystemMetric(ctx, snapshot.System); err != nil {
			zap.L().Error("persist system metric failed",
				zap.Int64("device_id", device.ID), zap.Error(err))
		}
	}
	if err := p.metrics.AddInterfaceMetrics(ctx, snapshot.Interfaces); err != nil {
		zap.L().Error("persist interface metrics failed",
			zap.Int64("device_id", device.ID), zap.Error(err))
	}
	if err := p.metrics.ReplaceOnlineUsers(ctx, device.ID, snapshot.Online); err != nil {
		zap.L().Error("persist online users failed",
			zap.Int64("device_id", device.ID), zap.Error(err))
	}

	_ = p.devices.Updates(ctx, device.ID, map[string]interface{}{
		"status":     domain.DeviceStatusOnline,
		"updated_at": now,
	})
}
