package accounts

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/routerops/radman/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository data access for bandwidth profiles
type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RadiusProfile, error)
	List(ctx context.Context) ([]domain.RadiusProfile, error)
	Create(ctx context.Context, profile *domain.RadiusProfile) error
	Updates(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository data access for subscriber accounts
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RadiusUser, error)
	List(ctx context.Context) ([]domain.RadiusUser, error)
	Page(ctx context.Context, offset, limit int) ([]domain.RadiusUser, int64, error)
	Create(ctx context.Context, user *domain.RadiusUser) error
	Updates(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	CountByUsername(ctx context.Context, username string) (int64, error)
	CountByProfile(ctx context.Context, profileId int64) (int64, error)
}

// ActivityLogFilter narrows an activity log query. Nil/zero members mean
// no restriction on that dimension; predicates are AND-combined.
type ActivityLogFilter struct {
	Username string
	Action   string
	Start    *time.Time
	End      *time.Time
	Limit    int
	Offset   int
}

// ActivityLogRepository append/query access for the audit trail
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.RadiusActivityLog) error
	Query(ctx context.Context, filter ActivityLogFilter) ([]domain.RadiusActivityLog, error)
}

// GormProfileRepository is the GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) GetByID(ctx context.Context, id int64) (*domain.RadiusProfile, error) {
	var profile domain.RadiusProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormProfileRepository) List(ctx context.Context) ([]domain.RadiusProfile, error) {
	var profiles []domain.RadiusProfile
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

func (r *GormProfileRepository) Create(ctx context.Context, profile *domain.RadiusProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *GormProfileRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.RadiusProfile{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (r *GormProfileRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.RadiusProfile{}, id).Error
}

// GormUserRepository is the GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.RadiusUser, error) {
	var user domain.RadiusUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]domain.RadiusUser, error) {
	var users []domain.RadiusUser
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// Page returns one page of accounts plus the unpaged total.
func (r *GormUserRepository) Page(ctx context.Context, offset, limit int) ([]domain.RadiusUser, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.RadiusUser{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}
	var users []domain.RadiusUser
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.RadiusUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.RadiusUser{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.RadiusUser{}, id).Error
}

// CountByUsername exact-match, case-sensitive as stored.
func (r *GormUserRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RadiusUser{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count users by username")
	}
	return count, nil
}

func (r *GormUserRepository) CountByProfile(ctx context.Context, profileId int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RadiusUser{}).
		Where("profile_id = ?", profileId).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count users by profile")
	}
	return count, nil
}

// GormActivityLogRepository is the GORM implementation of ActivityLogRepository
type GormActivityLogRepository struct {
	db *gorm.DB
}

func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

func (r *GormActivityLogRepository) Create(ctx context.Context, entry *domain.RadiusActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormActivityLogRepository) Query(ctx context.Context, filter ActivityLogFilter) ([]domain.RadiusActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&domain.RadiusActivityLog{})
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}

	var entries []domain.RadiusActivityLog
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&entries).Error
	return entries, err
}
