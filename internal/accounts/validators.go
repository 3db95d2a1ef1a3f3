package accounts

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Validators are the read-only referential and uniqueness checks run
// before mutating operations. A passing check is advisory under
// concurrent writers; the store's unique index remains the backstop
// (see the duplicate-key translation in the service).
type Validators struct {
	profiles ProfileRepository
	users    UserRepository
}

func NewValidators(profiles ProfileRepository, users UserRepository) *Validators {
	return &Validators{profiles: profiles, users: users}
}

// ProfileExists reports whether the profile id resolves.
func (v *Validators) ProfileExists(ctx context.Context, profileId int64) (bool, error) {
	_, err := v.profiles.GetByID(ctx, profileId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UsernameAvailable reports whether no subscriber account holds the
// username. The check is exact-match and case-sensitive as stored.
func (v *Validators) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	count, err := v.users.CountByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// DependentAccountCount counts subscriber accounts referencing the profile.
func (v *Validators) DependentAccountCount(ctx context.Context, profileId int64) (int64, error) {
	return v.users.CountByProfile(ctx, profileId)
}
