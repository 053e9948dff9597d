package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("creates user and returns token", func(t *testing.T) {
		svc := newUserService(newTestDB(t))

		resp, err := svc.Register(&RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "correcthorse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc := newUserService(newTestDB(t))

		_, err := svc.Register(&RegisterRequest{Username: "alice", Email: "a@example.com", Password: "correcthorse"})
		require.NoError(t, err)

		_, err = svc.Register(&RegisterRequest{Username: "alice", Email: "b@example.com", Password: "correcthorse"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newUserService(newTestDB(t))

		_, err := svc.Register(&RegisterRequest{Username: "alice", Email: "a@example.com", Password: "correcthorse"})
		require.NoError(t, err)

		_, err = svc.Register(&RegisterRequest{Username: "bob", Email: "a@example.com", Password: "correcthorse"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("validates input", func(t *testing.T) {
		svc := newUserService(newTestDB(t))

		_, err := svc.Register(&RegisterRequest{Username: "ab", Email: "a@example.com", Password: "correcthorse"})
		assert.ErrorIs(t, err, ErrInvalidUsername)

		_, err = svc.Register(&RegisterRequest{Username: "alice", Email: "not-an-email", Password: "correcthorse"})
		assert.ErrorIs(t, err, ErrInvalidEmail)

		_, err = svc.Register(&RegisterRequest{Username: "alice", Email: "a@example.com", Password: "short"})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.Register(&RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{UsernameOrEmail: "alice", Password: "correcthorse"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("by email", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{UsernameOrEmail: "alice@example.com", Password: "correcthorse"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{UsernameOrEmail: "alice", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{UsernameOrEmail: "nobody", Password: "correcthorse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice")

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		name := "Alice"
		updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{DisplayName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.DisplayName)
		assert.Equal(t, "", updated.Bio)

		bio := "hello"
		updated, err = svc.UpdateProfile(user.ID, &UpdateProfileRequest{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.DisplayName)
		assert.Equal(t, "hello", updated.Bio)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(9999, &UpdateProfileRequest{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateSettings(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice")

	off := false
	dark := "dark"
	updated, err := svc.UpdateSettings(user.ID, &UpdateSettingsRequest{NotificationsEnabled: &off, Theme: &dark})
	require.NoError(t, err)
	assert.False(t, updated.NotificationsEnabled)
	assert.Equal(t, "dark", updated.Theme)

	// Nil fields stay as they are.
	updated, err = svc.UpdateSettings(user.ID, &UpdateSettingsRequest{})
	require.NoError(t, err)
	assert.False(t, updated.NotificationsEnabled)
	assert.Equal(t, "dark", updated.Theme)
}
