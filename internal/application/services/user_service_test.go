package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
	"github.com/taskmaster/planner/internal/ports/portstest"
)

func TestUserServiceUpdateProfile(t *testing.T) {
	users := portstest.NewUserRepository()
	svc := NewUserService(users, logger.NewNop())
	ctx := context.Background()

	alice, err := svc.CreateUser(ctx, ports.CreateUserRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, ports.CreateUserRequest{Username: "bob", Password: "correct-horse"})
	require.NoError(t, err)

	t.Run("username taken by another user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, ports.UpdateProfileRequest{Username: "bob", FirstName: "Alice"})
		assert.ErrorIs(t, err, entities.ErrUsernameTaken)

		stored, err := svc.GetProfile(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
		assert.Empty(t, stored.FirstName)
	})

	t.Run("keeping own username", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, alice.ID, ports.UpdateProfileRequest{
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Liddell",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Liddell", updated.FullName())
	})

	t.Run("new free username", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, alice.ID, ports.UpdateProfileRequest{Username: "alice2"})
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username)

		_, err = users.GetByUsername(ctx, "alice")
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}

func TestUserServiceChangePassword(t *testing.T) {
	users := portstest.NewUserRepository()
	svc := NewUserService(users, logger.NewNop())
	ctx := context.Background()

	alice, err := svc.CreateUser(ctx, ports.CreateUserRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.ChangePassword(ctx, alice.ID, ports.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword1: "battery-staple", NewPassword2: "battery-staple",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidPassword)

	updated, err := svc.ChangePassword(ctx, alice.ID, ports.ChangePasswordRequest{
		OldPassword: "correct-horse", NewPassword1: "battery-staple", NewPassword2: "battery-staple",
	})
	require.NoError(t, err)
	assert.True(t, CheckPassword(updated.PasswordHash, "battery-staple"))

	stored, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.PasswordHash, stored.PasswordHash)
}
