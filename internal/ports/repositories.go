package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/planner/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TaskRepository defines the interface for task data operations.
// Every lookup is scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	CountByDay(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.DayCount, error)
}

// SessionStore persists browser sessions
type SessionStore interface {
	Save(ctx context.Context, session *entities.Session) error
	Get(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// TaskFilter narrows task listings. From is inclusive, To exclusive.
type TaskFilter struct {
	UserID uuid.UUID
	Date   *time.Time
	From   *time.Time
	To     *time.Time
}
