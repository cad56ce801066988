package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
)

var userRowColumns = []string{
	"id", "username", "email", "password_hash", "first_name", "last_name",
	"is_active", "last_login", "created_at", "updated_at",
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns id", func(t *testing.T) {
		user := &entities.User{Username: "alice", PasswordHash: "hash", IsActive: true}

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "alice", "", "hash", "", "", true).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(ctx, user))
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, now, user.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		user := &entities.User{Username: "alice", PasswordHash: "hash"}

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.Create(ctx, user), entities.ErrUsernameTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()
	now := time.Now()

	t.Run("by username", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(id.String(), "alice", "a@example.com", "hash", "Alice", "Smith", true, nil, now, now))

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Alice Smith", user.FullName())
		assert.Nil(t, user.LastLogin)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(boom)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := &entities.User{ID: uuid.New(), Username: "bob", IsActive: true}
	now := time.Now()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(user.ID, "bob", "", "", "", true).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	require.NoError(t, repo.Update(ctx, user))
	assert.Equal(t, now, user.UpdatedAt)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(user.ID, "bob", "", "", "", true).
		WillReturnError(&pq.Error{Code: "23505"})
	assert.ErrorIs(t, repo.Update(ctx, user), entities.ErrUsernameTaken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExecOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec(`UPDATE users SET last_login = \$2 WHERE id = \$1`).
		WithArgs(id, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateLastLogin(ctx, id, at))

	mock.ExpectExec(`UPDATE users SET password_hash = \$2`).
		WithArgs(id, "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdatePassword(ctx, id, "newhash"), entities.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
