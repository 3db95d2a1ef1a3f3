package devices

import (
	"context"

	"github.com/routerops/radman/internal/domain"
	"gorm.io/gorm"
)

// DeviceRepository data access for managed device records
type DeviceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.NetDevice, error)
	List(ctx context.Context) ([]domain.NetDevice, error)
	Create(ctx context.Context, device *domain.NetDevice) error
	Updates(ctx context.Context, id int64, values map[string]interface{}) error
}

// MetricRepository data access for per-device telemetry. Metric tables
// are append-only; online users are replaced wholesale per poll sweep.
type MetricRepository interface {
	AddSystemMetric(ctx context.Context, metric *domain.DeviceSystemMetric) error
	AddInterfaceMetrics(ctx context.Context, metrics []domain.DeviceInterfaceMetric) error
	ReplaceOnlineUsers(ctx context.Context, deviceId int64, users []domain.DeviceOnlineUser) error
	ListSystemMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceSystemMetric, error)
	ListInterfaceMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceInterfaceMetric, error)
	ListOnlineUsers(ctx context.Context, deviceId int64) ([]domain.DeviceOnlineUser, error)
}

// GormDeviceRepository is the GORM implementation of DeviceRepository
type GormDeviceRepository struct {
	db *gorm.DB
}

func NewGormDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

func (r *GormDeviceRepository) GetByID(ctx context.Context, id int64) (*domain.NetDevice, error) {
	var device domain.NetDevice
	err := r.db.WithContext(ctx).First(&device, id).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *GormDeviceRepository) List(ctx context.Context) ([]domain.NetDevice, error) {
	var devices []domain.NetDevice
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&devices).Error
	return devices, err
}

func (r *GormDeviceRepository) Create(ctx context.Context, device *domain.NetDevice) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *GormDeviceRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.NetDevice{}).
		Where("id = ?", id).
		Updates(values).Error
}

// GormMetricRepository is the GORM implementation of MetricRepository
type GormMetricRepository struct {
	db *gorm.DB
}

func NewGormMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

func (r *GormMetricRepository) AddSystemMetric(ctx context.Context, metric *domain.DeviceSystemMetric) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

func (r *GormMetricRepository) AddInterfaceMetrics(ctx context.Context, metrics []domain.DeviceInterfaceMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&metrics).Error
}

func (r *GormMetricRepository) ReplaceOnlineUsers(ctx context.Context, deviceId int64, users []domain.DeviceOnlineUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceId).Delete(&domain.DeviceOnlineUser{}).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		return tx.Create(&users).Error
	})
}

func (r *GormMetricRepository) ListSystemMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceSystemMetric, error) {
	var metrics []domain.DeviceSystemMetric
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		Order("collected_at DESC").
		Find(&metrics).Error
	return metrics, err
}

func (r *GormMetricRepository) ListInterfaceMetrics(ctx context.Context, deviceId int64) ([]domain.DeviceInterfaceMetric, error) {
	var metrics []domain.DeviceInterfaceMetric
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		Order("collected_at DESC").
		Find(&metrics).Error
	return metrics, err
}

func (r *GormMetricRepository) ListOnlineUsers(ctx context.Context, deviceId int64) ([]domain.DeviceOnlineUser, error) {
	var users []domain.DeviceOnlineUser
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		Order("last_seen_at DESC").
		Find(&users).Error
	return users, err
}
