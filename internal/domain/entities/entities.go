package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid old password")
	ErrInvalidMonth       = errors.New("invalid year or month")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrTitleRequired      = errors.New("title is required")
	ErrNothingToExport    = errors.New("no tasks to export")
)

// DateLayout is the wire and storage format of task dates.
const DateLayout = "2006-01-02"

// User represents an account owning tasks
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the first and last name joined by a space.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Task represents a dated entry on a user's calendar
type Task struct {
	ID          int64      `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Date        time.Time  `json:"date" db:"date"`
	Time        *TimeOfDay `json:"time" db:"time"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// String renders the task the way it is listed in agendas.
func (t *Task) String() string {
	if t.Time != nil {
		return fmt.Sprintf("%s %s - %s", t.Date.Format(DateLayout), t.Time.Label(), t.Title)
	}
	return fmt.Sprintf("%s - %s", t.Date.Format(DateLayout), t.Title)
}

// OnHour reports whether the task is scheduled exactly at hour:00:00.
func (t *Task) OnHour(hour int) bool {
	return t.Time != nil && t.Time.Hour == hour && t.Time.Minute == 0 && t.Time.Second == 0
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// DayCount holds the number of tasks on one calendar day.
type DayCount struct {
	Date      time.Time `json:"date" db:"date"`
	Total     int       `json:"total" db:"total"`
	Completed int       `json:"completed" db:"completed"`
}

// Date truncates t to midnight UTC of its calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ValidDate builds a date and rejects values that would be normalised,
// such as February 30.
func ValidDate(year, month, day int) (time.Time, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, ErrInvalidDate
	}
	d := Date(year, time.Month(month), day)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
