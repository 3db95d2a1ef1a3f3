package devices

import (
	"context"
	"testing"
	"time"

	"github.com/routerops/radman/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	snapshot *Snapshot
	err      error
}

func (f *fakeCollector) Collect(ctx context.Context, device *domain.NetDevice) (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func TestPollAllPersistsSnapshot(t *testing.T) {
	db := newTestDB(t)
	deviceRepo := NewGormDeviceRepository(db)
	metricRepo := NewGormMetricRepository(db)
	registry := NewRegistry(deviceRepo, metricRepo, &fakeProbe{})
	ctx := context.Background()

	device, err := registry.Register(ctx, RegisterDeviceInput{Name: "gw", Ipaddr: "10.0.0.1"})
	require.NoError(t, err)

	now := time.Now()
	collector := &fakeCollector{snapshot: &Snapshot{
		System: &domain.DeviceSystemMetric{
			DeviceId:    device.ID,
			CpuPercent:  decimal.RequireFromString("12.50"),
			MemUsed:     decimal.RequireFromString("256.00"),
			MemTotal:    decimal.RequireFromString("1024.00"),
			Uptime:      "1w2d3h",
			CollectedAt: now,
		},
		Interfaces: []domain.DeviceInterfaceMetric{
			{
				DeviceId:    device.ID,
				IfName:      "ether1",
				RxBytes:     decimal.RequireFromString("123456789012345678901234567890"),
				TxBytes:     decimal.NewFromInt(42),
				CollectedAt: now,
			},
		},
		Online: []domain.DeviceOnlineUser{
			{
				DeviceId:   device.ID,
				Username:   "u1",
				Ipaddr:     "10.1.0.7",
				Status:     domain.SessionStatusActive,
				LastSeenAt: now,
			},
		},
	}}

	poller := NewPoller(deviceRepo, metricRepo, collector, 4)
	poller.PollAll(ctx)

	system, err := registry.ListSystemMetrics(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, system, 1)
	assert.True(t, system[0].CpuPercent.Equal(decimal.RequireFromString("12.50")))

	interfaces, err := registry.ListInterfaceMetrics(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, interfaces, 1)
	assert.True(t, interfaces[0].RxBytes.
		Equal(decimal.RequireFromString("123456789012345678901234567890")),
		"oversized counters must round-trip exactly")

	online, err := registry.ListOnlineUsers(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "u1", online[0].Username)

	refreshed, err := deviceRepo.GetByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusOnline, refreshed.Status)
}

func TestPollAllReplacesOnlineUsers(t *testing.T) {
	db := newTestDB(t)
	deviceRepo := NewGormDeviceRepository(db)
	metricRepo := NewGormMetricRepository(db)
	registry := NewRegistry(deviceRepo, metricRepo, &fakeProbe{})
	ctx := context.Background()

	device, err := registry.Register(ctx, RegisterDeviceInput{Name: "gw", Ipaddr: "10.0.0.1"})
	require.NoError(t, err)

	collector := &fakeCollector{snapshot: &Snapshot{
		Online: []domain.DeviceOnlineUser{
			{DeviceId: device.ID, Username: "u1", LastSeenAt: time.Now()},
			{DeviceId: device.ID, Username: "u2", LastSeenAt: time.Now()},
		},
	}}
	poller := NewPoller(deviceRepo, metricRepo, collector, 2)
	poller.PollAll(ctx)

	online, err := registry.ListOnlineUsers(ctx, device.ID)
	require.NoError(t, err)
	assert.Len(t, online, 2)

	// The next sweep replaces the whole set, it never accumulates.
	collector.snapshot = &Snapshot{
		Online: []domain.DeviceOnlineUser{
			{DeviceId: device.ID, Username: "u2", LastSeenAt: time.Now()},
		},
	}
	poller.PollAll(ctx)

	online, err = registry.ListOnlineUsers(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "u2", online[0].Username)
}

func TestPollAllMarksErroredDevice(t *testing.T) {
	db := newTestDB(t)
	deviceRepo := NewGormDeviceRepository(db)
	metricRepo := NewGormMetricRepository(db)
	registry := NewRegistry(deviceRepo, metricRepo, &fakeProbe{})
	ctx := context.Background()

	device, err := registry.Register(ctx, RegisterDeviceInput{Name: "gw", Ipaddr: "10.0.0.1"})
	require.NoError(t, err)

	poller := NewPoller(deviceRepo, metricRepo, &fakeCollector{err: assert.AnError}, 2)
	poller.PollAll(ctx)

	refreshed, err := deviceRepo.GetByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusError, refreshed.Status)

	metrics, err := registry.ListSystemMetrics(ctx, device.ID)
	require.NoError(t, err)
	assert.Empty(t, metrics)
}
