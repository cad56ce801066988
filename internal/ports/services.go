package ports

import (
	"time"

	"github.com/taskmaster/planner/internal/domain/calendar"
	"github.com/taskmaster/planner/internal/domain/entities"
)

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" json:"password1" validate:"required,min=8,notnumeric,nefield=Username"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" query:"next" json:"next"`
}

// User related types
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,notnumeric,nefield=Username"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
}

type UpdateProfileRequest struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=150"`
}

type ChangePasswordRequest struct {
	OldPassword  string `form:"old_password" json:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" json:"new_password1" validate:"required,min=8,notnumeric"`
	NewPassword2 string `form:"new_password2" json:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// Task related types. Empty strings mean "not supplied".
type CreateTaskRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Time        string `form:"time" json:"time"`
}

// EditTaskRequest fields are nil when absent from the submitted form.
type EditTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Time        *string `json:"time"`
}

// Calendar views

// MonthView is the calendar home for one user and month.
type MonthView struct {
	Weeks     []calendar.Week           `json:"calendar"`
	Year      int                       `json:"year"`
	Month     int                       `json:"month"`
	MonthName string                    `json:"month_name"`
	Counts    map[int]entities.DayCount `json:"counts"`
	PrevYear  int                       `json:"prev_year"`
	PrevMonth int                       `json:"prev_month"`
	NextYear  int                       `json:"next_year"`
	NextMonth int                       `json:"next_month"`
	Today     *int                      `json:"today"`
}

// HourSlot is one hour-aligned bucket of the day agenda.
type HourSlot struct {
	Hour  int              `json:"hour"`
	Label string           `json:"label"`
	Tasks []*entities.Task `json:"tasks"`
}

// DayAgenda is the per-day view: all tasks plus the hourly grid.
type DayAgenda struct {
	Date  time.Time        `json:"date"`
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Day   int              `json:"day"`
	Tasks []*entities.Task `json:"tasks"`
	Slots []HourSlot       `json:"hours"`
	Prev  time.Time        `json:"prev_date"`
	Next  time.Time        `json:"next_date"`
}

// ProfileView is the stored account shown on the profile page.
type ProfileView struct {
	*entities.User
	FullName string `json:"full_name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

