package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
	"github.com/taskmaster/planner/internal/ports/portstest"
)

func TestAuthServiceRegister(t *testing.T) {
	users := portstest.NewUserRepository()
	svc := NewAuthService(users, logger.NewNop())
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, CheckPassword(user.PasswordHash, "correct-horse"))

	_, err = svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password1: "another-pass", Password2: "another-pass"})
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
}

func TestAuthServiceLogin(t *testing.T) {
	users := portstest.NewUserRepository()
	svc := NewAuthService(users, logger.NewNop())
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		require.NotNil(t, user.LastLogin)

		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, ports.LoginRequest{Username: "bob", Password: "correct-horse"})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := *registered
		inactive.IsActive = false
		require.NoError(t, users.Update(ctx, &inactive))

		_, err := svc.Login(ctx, ports.LoginRequest{Username: "alice", Password: "correct-horse"})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestDummyHashIsWellFormed(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.ErrorIs(t, bcrypt.CompareHashAndPassword(dummyHash, []byte("guess")), bcrypt.ErrMismatchedHashAndPassword)
}
