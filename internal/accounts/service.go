package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/common"
	"github.com/routerops/radman/pkg/crypt"
	"github.com/routerops/radman/pkg/metrics"
	"github.com/routerops/radman/pkg/optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateProfileInput carries the fields of a new bandwidth profile.
type CreateProfileInput struct {
	Name           string
	UpRate         int
	DownRate       int
	SessionTimeout *int
	IdleTimeout    *int
	QuotaMb        *int64
	Price          *decimal.Decimal
	Remark         *string
}

// UpdateProfileInput is a partial profile update. Absent fields are left
// untouched; nullable fields may be explicitly nulled. UpRate and
// DownRate are not nullable and must always resolve to an integer.
type UpdateProfileInput struct {
	Name           optional.Field[string]
	UpRate         optional.Field[int]
	DownRate       optional.Field[int]
	SessionTimeout optional.Field[int]
	IdleTimeout    optional.Field[int]
	QuotaMb        optional.Field[int64]
	Price          optional.Field[decimal.Decimal]
	Remark         optional.Field[string]
}

// CreateAccountInput carries the fields of a new subscriber account.
// Secret arrives in plaintext and is hashed before it is persisted.
type CreateAccountInput struct {
	Username  string
	Secret    string
	ProfileId int64
	Realname  *string
	Email     *string
	Mobile    *string
	Address   *string
	ExpireAt  *time.Time
}

// UpdateAccountInput is a partial account update with the same
// omitted-vs-null distinction as UpdateProfileInput. The username is not
// reassignable; secrets and profile references cannot be nulled.
type UpdateAccountInput struct {
	Secret    optional.Field[string]
	ProfileId optional.Field[int64]
	Realname  optional.Field[string]
	Email     optional.Field[string]
	Mobile    optional.Field[string]
	Address   optional.Field[string]
	Status    optional.Field[string]
	ExpireAt  optional.Field[time.Time]
}

// AccountService orchestrates the lifecycle of subscriber accounts and
// bandwidth profiles: validators first, then the hasher, then the entity
// write, then the activity log. The multi-step sequences are not wrapped
// in a transaction; an activity-log failure after a durable entity write
// surfaces as an error without rolling the write back.
type AccountService struct {
	profiles   ProfileRepository
	users      UserRepository
	validators *Validators
	audit      *AuditWriter
}

func NewAccountService(profiles ProfileRepository, users UserRepository, validators *Validators, audit *AuditWriter) *AccountService {
	return &AccountService{
		profiles:   profiles,
		users:      users,
		validators: validators,
		audit:      audit,
	}
}

func (s *AccountService) ListProfiles(ctx context.Context) ([]domain.RadiusProfile, error) {
	return s.profiles.List(ctx)
}

func (s *AccountService) CreateProfile(ctx context.Context, in CreateProfileInput) (profile *domain.RadiusProfile, err error) {
	defer func() { metrics.MarkAccountOp("create_profile", err) }()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, &domain.ValidationError{Message: "Profile name is required"}
	}
	if in.UpRate < 0 || in.DownRate < 0 {
		return nil, &domain.ValidationError{Message: "Profile rates cannot be negative"}
	}

	profile = &domain.RadiusProfile{
		ID:             common.UUIDint64(),
		Name:           in.Name,
		UpRate:         in.UpRate,
		DownRate:       in.DownRate,
		SessionTimeout: in.SessionTimeout,
		IdleTimeout:    in.IdleTimeout,
		QuotaMb:        in.QuotaMb,
		Price:          in.Price,
		Remark:         in.Remark,
		CreatedAt:      time.Now(),
	}
	if err = s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	zap.L().Info("radius profile created",
		zap.Int64("profile_id", profile.ID),
		zap.String("name", profile.Name))
	return profile, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (profile *domain.RadiusProfile, err error) {
	defer func() { metrics.MarkAccountOp("update_profile", err) }()

	if _, err = s.profiles.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound(id)
		}
		return nil, err
	}

	values := map[string]interface{}{}
	if in.Name.Present() {
		name, ok := in.Name.Value()
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &domain.ValidationError{Message: "Profile name cannot be null"}
		}
		values["name"] = strings.TrimSpace(name)
	}
	if in.UpRate.Present() {
		rate, ok := in.UpRate.Value()
		if !ok {
			return nil, &domain.ValidationError{Message: "Profile up_rate cannot be null"}
		}
		values["up_rate"] = rate
	}
	if in.DownRate.Present() {
		rate, ok := in.DownRate.Value()
		if !ok {
			return nil, &domain.ValidationError{Message: "Profile down_rate cannot be null"}
		}
		values["down_rate"] = rate
	}
	if in.SessionTimeout.Present() {
		values["session_timeout"] = in.SessionTimeout.Ptr()
	}
	if in.IdleTimeout.Present() {
		values["idle_timeout"] = in.IdleTimeout.Ptr()
	}
	if in.QuotaMb.Present() {
		values["quota_mb"] = in.QuotaMb.Ptr()
	}
	if in.Price.Present() {
		values["price"] = in.Price.Ptr()
	}
	if in.Remark.Present() {
		values["remark"] = in.Remark.Ptr()
	}

	// created_at is never touched; the creation timestamp is preserved.
	if len(values) > 0 {
		if err = s.profiles.Updates(ctx, id, values); err != nil {
			return nil, err
		}
	}
	return s.profiles.GetByID(ctx, id)
}

func (s *AccountService) DeleteProfile(ctx context.Context, id int64) (err error) {
	defer func() { metrics.MarkAccountOp("delete_profile", err) }()

	if _, err = s.profiles.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProfileNotFound(id)
		}
		return err
	}

	count, err := s.validators.DependentAccountCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrProfileInUse(count)
	}

	if err = s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("radius profile deleted", zap.Int64("profile_id", id))
	return nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.RadiusUser, error) {
	return s.users.List(ctx)
}

// PageAccounts returns one page of accounts, newest first, plus the
// unpaged total.
func (s *AccountService) PageAccounts(ctx context.Context, page, pageSize int) ([]domain.RadiusUser, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.users.Page(ctx, (page-1)*pageSize, pageSize)
}

// CreateAccount validates the profile reference and username, hashes the
// secret, inserts the account with status forced to active, then appends
// the account_created activity entry. A duplicate-key failure from the
// store is reported as the same conflict the pre-check would have raised.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (user *domain.RadiusUser, err error) {
	defer func() { metrics.MarkAccountOp("create_account", err) }()

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, &domain.ValidationError{Message: "Username is required"}
	}
	if in.Secret == "" {
		return nil, &domain.ValidationError{Message: "Password is required"}
	}

	exists, err := s.validators.ProfileExists(ctx, in.ProfileId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrProfileRefNotFound(in.ProfileId)
	}

	available, err := s.validators.UsernameAvailable(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrUsernameTaken(in.Username)
	}

	hashed, err := crypt.HashSecret(in.Secret)
	if err != nil {
		return nil, err
	}

	user = &domain.RadiusUser{
		ID:        common.UUIDint64(),
		Username:  in.Username,
		Password:  hashed,
		ProfileId: in.ProfileId,
		Realname:  in.Realname,
		Email:     in.Email,
		Mobile:    in.Mobile,
		Address:   in.Address,
		Status:    domain.UserStatusActive,
		ExpireAt:  in.ExpireAt,
		CreatedAt: time.Now(),
	}
	if err = s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two concurrent creates can both pass the availability
			// check; the unique index is the real guard.
			return nil, domain.ErrUsernameTaken(in.Username)
		}
		return nil, err
	}

	if _, err = s.audit.Append(ctx, domain.RadiusActivityLog{
		UserId:   &user.ID,
		Username: user.Username,
		Action:   domain.ActionAccountCreated,
	}); err != nil {
		// The account row is already durable and stays; the failed
		// audit write is still surfaced to the caller.
		return nil, err
	}

	zap.L().Info("radius user created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, id int64, in UpdateAccountInput) (user *domain.RadiusUser, err error) {
	defer func() { metrics.MarkAccountOp("update_account", err) }()

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound(id)
		}
		return nil, err
	}

	values := map[string]interface{}{}
	if in.ProfileId.Present() {
		profileId, ok := in.ProfileId.Value()
		if !ok {
			return nil, &domain.ValidationError{Message: "Profile reference cannot be null"}
		}
		exists, err := s.validators.ProfileExists(ctx, profileId)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrProfileRefNotFound(profileId)
		}
		values["profile_id"] = profileId
	}
	if in.Secret.Present() {
		secret, ok := in.Secret.Value()
		if !ok || secret == "" {
			return nil, &domain.ValidationError{Message: "Password cannot be null"}
		}
		hashed, err := crypt.HashSecret(secret)
		if err != nil {
			return nil, err
		}
		values["password"] = hashed
	}
	if in.Status.Present() {
		status, ok := in.Status.Value()
		if !ok || !domain.ValidUserStatus(status) {
			return nil, &domain.ValidationError{Message: "Invalid user status"}
		}
		values["status"] = status
	}
	if in.Realname.Present() {
		values["realname"] = in.Realname.Ptr()
	}
	if in.Email.Present() {
		values["email"] = in.Email.Ptr()
	}
	if in.Mobile.Present() {
		values["mobile"] = in.Mobile.Ptr()
	}
	if in.Address.Present() {
		values["address"] = in.Address.Ptr()
	}
	if in.ExpireAt.Present() {
		values["expire_at"] = in.ExpireAt.Ptr()
	}

	if len(values) > 0 {
		if err = s.users.Updates(ctx, id, values); err != nil {
			return nil, err
		}
	}

	if _, err = s.audit.Append(ctx, domain.RadiusActivityLog{
		UserId:   &current.ID,
		Username: current.Username,
		Action:   domain.ActionAccountUpdated,
	}); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, id)
}

// DeleteAccount appends the removal entry before deleting the row. The
// log's user reference is weak and may dangle afterwards; historical
// entries keep their denormalized username and are never cascaded.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (err error) {
	defer func() { metrics.MarkAccountOp("delete_account", err) }()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound(id)
		}
		return err
	}

	if _, err = s.audit.Append(ctx, domain.RadiusActivityLog{
		UserId:   &user.ID,
		Username: user.Username,
		Action:   domain.ActionAccountUpdated,
	}); err != nil {
		return err
	}

	if err = s.users.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("radius user deleted",
		zap.Int64("user_id", id),
		zap.String("username", user.Username))
	return nil
}
