package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	profiles := NewGormProfileRepository(db)
	users := NewGormUserRepository(db)
	validators := NewValidators(profiles, users)

	exists, err := validators.ProfileExists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)

	profile, err := svc.CreateProfile(ctx, CreateProfileInput{Name: "p", UpRate: 1, DownRate: 1})
	require.NoError(t, err)

	exists, err = validators.ProfileExists(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	available, err := validators.UsernameAvailable(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.CreateAccount(ctx, CreateAccountInput{Username: "u1", Secret: "x", ProfileId: profile.ID})
	require.NoError(t, err)

	available, err = validators.UsernameAvailable(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, available)

	// Case-sensitive as stored.
	available, err = validators.UsernameAvailable(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, available)

	count, err := validators.DependentAccountCount(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = validators.DependentAccountCount(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, count)
}
