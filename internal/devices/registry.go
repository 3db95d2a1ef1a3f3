package devices

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/common"
	"github.com/routerops/radman/pkg/metrics"
	"github.com/routerops/radman/pkg/optional"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDeviceInput carries the fields of a new device record. Any
// caller-supplied status is ignored; devices always register offline.
type RegisterDeviceInput struct {
	Name     string
	Ipaddr   string
	Username string
	Password string
	ApiPort  int
}

// UpdateDeviceInput is a partial device update; absent fields stay
// untouched. Device fields are not nullable.
type UpdateDeviceInput struct {
	Name     optional.Field[string]
	Ipaddr   optional.Field[string]
	Username optional.Field[string]
	Password optional.Field[string]
	ApiPort  optional.Field[int]
	Status   optional.Field[string]
}

// Registry manages device records and their telemetry views. It shares
// only the entity store with the account service; device operations have
// no audit coupling.
type Registry struct {
	devices DeviceRepository
	metrics MetricRepository
	probe   DeviceProbe
}

func NewRegistry(devices DeviceRepository, metricRepo MetricRepository, probe DeviceProbe) *Registry {
	return &Registry{devices: devices, metrics: metricRepo, probe: probe}
}

// Register inserts a new device. Status is forced to offline and the
// API port defaults to 8728. Duplicate names or addresses are permitted.
func (r *Registry) Register(ctx context.Context, in RegisterDeviceInput) (*domain.NetDevice, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Ipaddr = strings.TrimSpace(in.Ipaddr)
	if in.Name == "" {
		return nil, &domain.ValidationError{Message: "Device name is required"}
	}
	if in.Ipaddr == "" {
		return nil, &domain.ValidationError{Message: "Device address is required"}
	}
	if in.ApiPort <= 0 {
		in.ApiPort = domain.DefaultApiPort
	}

	now := time.Now()
	device := &domain.NetDevice{
		ID:        common.UUIDint64(),
		Name:      in.Name,
		Ipaddr:    in.Ipaddr,
		Username:  in.Username,
		Password:  in.Password,
		ApiPort:   in.ApiPort,
		Status:    domain.DeviceStatusOffline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	zap.L().Info("device registered",
		zap.Int64("device_id", device.ID),
		zap.String("name", device.Name),
		zap.String("ipaddr", device.Ipaddr))
	return device, nil
}

func (r *Registry) List(ctx context.Context) ([]domain.NetDevice, error) {
	return r.devices.List(ctx)
}

// Update applies only the fields present in the request. The last-update
// timestamp is refreshed even when no business field changed.
func (r *Registry) Update(ctx context.Context, id int64, in UpdateDeviceInput) (*domain.NetDevice, error) {
	if _, err := r.devices.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound(id)
		}
		return nil, err
	}

	values := map[string]interface{}{"updated_at": time.Now()}
	if in.Name.Present() {
		name, ok := in.Name.Value()
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &domain.ValidationError{Message: "Device name cannot be null"}
		}
		values["name"] = strings.TrimSpace(name)
	}
	if in.Ipaddr.Present() {
		ipaddr, ok := in.Ipaddr.Value()
		if !ok || strings.TrimSpace(ipaddr) == "" {
			return nil, &domain.ValidationError{Message: "Device address cannot be null"}
		}
		values["ipaddr"] = strings.TrimSpace(ipaddr)
	}
	if in.Username.Present() {
		username, ok := in.Username.Value()
		if !ok {
			return nil, &domain.ValidationError{Message: "Device username cannot be null"}
		}
		values["username"] = username
	}
	if in.Password.Present() {
		password, ok := in.Password.Value()
		if !ok {
			return nil, &domain.ValidationError{Message: "Device password cannot be null"}
		}
		values["password"] = password
	}
	if in.ApiPort.Present() {
		port, ok := in.ApiPort.Value()
		if !ok || port <= 0 {
			return nil, &domain.ValidationError{Message: "Device api_port must be a positive integer"}
		}
		values["api_port"] = port
	}
	if in.Status.Present() {
		status, ok := in.Status.Value()
		if !ok || !domain.ValidDeviceStatus(status) {
			return nil, &domain.ValidationError{Message: "Invalid device status"}
		}
		values["status"] = status
	}

	if err := r.devices.Updates(ctx, id, values); err != nil {
		return nil, err
	}
	return r.devices.GetByID(ctx, id)
}

// RefreshStatus probes the device and persists the mapped status. Probe
// transport failures map to the error status, never to an operation
// failure; only an unresolvable id or a storage fault is returned.
func (r *Registry) RefreshStatus(ctx context.Context, id int64) (*domain.NetDevice, error) {
	device, err := r.devices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound(id)
		}
		return nil, err
	}

	status := domain.DeviceStatusOnline
	result, err := r.probe.Probe(ctx, device)
	switch {
	case err != nil:
		status = domain.DeviceStatusError
		zap.L().Warn("device probe failed",
			zap.Int64("device_id", id),
			zap.String("ipaddr", device.Ipaddr),
			zap.Error(err))
	case !result.Online:
		status = domain.DeviceStatusOffline
	}
	metrics.DeviceProbes.WithLabelValues(status).Inc()

	values := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if err := r.devices.Updates(ctx, id, values); err != nil {
		return nil, err
	}
	return r.devices.GetByID(ctx, id)
}

// Telemetry views, most-recent-first. The poller fills these tables;
// this core only relays them.

func (r *Registry) ListSystemMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceSystemMetric, error) {
	if _, err := r.devices.GetByID(ctx, deviceId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound(deviceId)
		}
		return nil, err
	}
	return r.metrics.ListSystemMetrics(ctx, deviceId)
}

func (r *Registry) ListInterfaceMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceInterfaceMetric, error) {
	if _, err := r.devices.GetByID(ctx, deviceId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound(deviceId)
		}
		return nil, err
	}
	return r.metrics.ListInterfaceMetrics(ctx, deviceId)
}

func (r *Registry) ListOnlineUsers(ctx context.Context, deviceId int64) ([]domain.DeviceOnlineUser, error) {
	if _, err := r.devices.GetByID(ctx, deviceId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound(deviceId)
		}
		return nil, err
	}
	return r.metrics.ListOnlineUsers(ctx, deviceId)
}
