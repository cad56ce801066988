// Package portstest provides in-memory implementations of the repository
// ports for service and handler tests.
package portstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// UserRepository is an in-memory ports.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]entities.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]entities.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return entities.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.IsActive = user.IsActive
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	r.users[user.ID] = stored
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.LastLogin = &at
	r.users[id] = u
	return nil
}

// TaskRepository is an in-memory ports.TaskRepository.
type TaskRepository struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]entities.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[int64]entities.Task)}
}

func (r *TaskRepository) Create(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	task.ID = r.nextID
	// Distinct creation instants keep the listing order deterministic.
	now := time.Now().Add(time.Duration(r.nextID) * time.Microsecond)
	task.CreatedAt, task.UpdatedAt = now, now
	r.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepository) GetForUser(_ context.Context, id int64, userID uuid.UUID) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, entities.ErrTaskNotFound
	}
	t = cloneTask(t)
	return &t, nil
}

func (r *TaskRepository) Update(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return entities.ErrTaskNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Time = task.Time
	stored.Completed = task.Completed
	stored.UpdatedAt = time.Now()
	task.UpdatedAt = stored.UpdatedAt
	r.tasks[task.ID] = cloneTask(stored)
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id int64, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) List(_ context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := []*entities.Task{}
	for _, t := range r.tasks {
		if !matches(t, filter) {
			continue
		}
		t := cloneTask(t)
		tasks = append(tasks, &t)
	}

	sort.Slice(tasks, func(i, j int) bool { return lessTask(tasks[i], tasks[j]) })

	return tasks, nil
}

func (r *TaskRepository) CountByDay(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.DayCount, error) {
	tasks, err := r.List(ctx, ports.TaskFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	var counts []entities.DayCount
	for _, t := range tasks {
		if n := len(counts); n > 0 && counts[n-1].Date.Equal(t.Date) {
			counts[n-1].Total++
			if t.Completed {
				counts[n-1].Completed++
			}
			continue
		}
		c := entities.DayCount{Date: t.Date, Total: 1}
		if t.Completed {
			c.Completed = 1
		}
		counts = append(counts, c)
	}
	return counts, nil
}

// Len returns the number of stored tasks.
func (r *TaskRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func matches(t entities.Task, f ports.TaskFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.Date != nil && !t.Date.Equal(*f.Date) {
		return false
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Date.Before(*f.To) {
		return false
	}
	return true
}

// lessTask orders by date, time (NULL last, as in Postgres), created_at.
func lessTask(a, b *entities.Task) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	switch {
	case a.Time == nil && b.Time != nil:
		return false
	case a.Time != nil && b.Time == nil:
		return true
	case a.Time != nil && b.Time != nil && *a.Time != *b.Time:
		return a.Time.String() < b.Time.String()
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func cloneTask(t entities.Task) entities.Task {
	if t.Time != nil {
		tod := *t.Time
		t.Time = &tod
	}
	return t
}

// SessionStore is an in-memory ports.SessionStore.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entities.Session
	Err      error
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]entities.Session)}
}

func (s *SessionStore) Save(_ context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	stored := *session
	stored.Flashes = append([]entities.Flash(nil), session.Flashes...)
	s.sessions[session.ID] = stored
	return nil
}

func (s *SessionStore) Get(_ context.Context, id uuid.UUID) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	session.Flashes = append([]entities.Flash(nil), session.Flashes...)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return s.Err
}

func (s *SessionStore) Ping(context.Context) error {
	return s.Err
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
