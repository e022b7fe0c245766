package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginService(t *testing.T) *LoginService {
	t.Helper()
	return NewLoginService(newTestDB(t), NewMemoryRateLimitStore())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	registered, err := svc.Register(ctx, "Learner@Example.com ", "s3cret", "Learner")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", registered.Email)
	assert.Equal(t, 1, registered.Level)

	// Email lookup is case-insensitive via normalization.
	user, err := svc.Login(ctx, "LEARNER@example.com", "s3cret", now)
	require.NoError(t, err)
	assert.Equal(t, 1, user.Streak)
	require.NotNil(t, user.LastLoginDate)
	assert.Equal(t, DateOnly(now), *user.LastLoginDate)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.Register(ctx, "learner@example.com", "s3cret", "Learner")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "learner@example.com", "wrong", now)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown emails produce the same error, not a not-found leak.
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret", now)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRateLimitLocksOutCorrectPassword(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.Register(ctx, "learner@example.com", "s3cret", "Learner")
	require.NoError(t, err)

	for i := 0; i < LoginMaxAttempts; i++ {
		_, err := svc.Login(ctx, "learner@example.com", "wrong", now)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The window is exhausted; even the right password is denied now.
	_, err = svc.Login(ctx, "learner@example.com", "s3cret", now)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestLoginSuccessResetsGuard(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.Register(ctx, "learner@example.com", "s3cret", "Learner")
	require.NoError(t, err)

	for i := 0; i < LoginMaxAttempts-1; i++ {
		_, err := svc.Login(ctx, "learner@example.com", "wrong", now)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, "learner@example.com", "s3cret", now)
	require.NoError(t, err)

	// The success cleared the window: a full set of fresh attempts is
	// available again.
	for i := 0; i < LoginMaxAttempts; i++ {
		_, err := svc.Login(ctx, "learner@example.com", "wrong", now)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = svc.Login(ctx, "learner@example.com", "wrong", now)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestLoginAdvancesStreak(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	user, err := svc.Register(ctx, "learner@example.com", "s3cret", "Learner")
	require.NoError(t, err)

	// Simulate a login yesterday with a running streak.
	user.Streak = 3
	user.LastLoginDate = daysAgo(1)
	require.NoError(t, svc.DB.Save(user).Error)

	updated, err := svc.Login(ctx, "learner@example.com", "s3cret", now)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Streak)

	// A second login the same day leaves the streak alone.
	updated, err = svc.Login(ctx, "learner@example.com", "s3cret", now)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Streak)
}

func TestLoginAfterGapResetsStreak(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()
	now := time.Now()

	user, err := svc.Register(ctx, "learner@example.com", "s3cret", "Learner")
	require.NoError(t, err)

	user.Streak = 9
	user.LastLoginDate = daysAgo(3)
	require.NoError(t, svc.DB.Save(user).Error)

	updated, err := svc.Login(ctx, "learner@example.com", "s3cret", now)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Streak)
}

func TestLoginValidation(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "s3cret", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Login(ctx, "learner@example.com", "", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}
