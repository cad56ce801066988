package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// Flash texts shown to the user
const (
	msgInvalidLogin     = "Invalid username or password."
	msgUsernameTaken    = "Username already taken."
	msgProfileUpdated   = "Profile updated successfully!"
	msgPasswordUpdated  = "Your password was successfully updated!"
	msgTaskAdded        = "Task added successfully!"
	msgTaskUpdated      = "Task updated!"
	msgTaskDeleted      = "Task deleted!"
	msgDuplicateAccount = "A user with that username already exists."
	msgWrongOldPassword = "Your old password was entered incorrectly. Please enter it again."
)

// AuthHandler handles login, logout and registration
type AuthHandler struct {
	authService *services.AuthService
	sessions    *Sessions
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, sessions *Sessions, m *metrics.Metrics, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		metrics:     m,
		logger:      logger,
	}
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.sessions.Render(c, "login", map[string]string{"next": c.QueryParam("next")}, nil)
}

// Login checks the submitted credentials and opens a session
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Next == "" {
		req.Next = c.QueryParam("next")
	}

	user, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.metrics.RecordLogin(false)
		if !errors.Is(err, entities.ErrInvalidCredentials) {
			return err
		}
		h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{
			"username": req.Username,
		})
		h.sessions.Flash(c, entities.FlashError, msgInvalidLogin)
		return h.sessions.Render(c, "login", map[string]string{"next": req.Next}, nil)
	}

	h.metrics.RecordLogin(true)
	if err := h.sessions.Login(c, user); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, safeNext(req.Next))
}

// Logout ends the session
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.sessions.Render(c, "register", nil, nil)
}

// Register creates an account and logs it in
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	form := map[string]string{"username": req.Username}

	if err := c.Validate(&req); err != nil {
		return h.sessions.Render(c, "register", form, FieldErrors(err))
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return h.sessions.Render(c, "register", form, map[string]string{"username": msgDuplicateAccount})
		}
		return err
	}

	h.sessions.Flash(c, entities.FlashSuccess, fmt.Sprintf("Account created for %s!", user.Username))
	if err := h.sessions.Login(c, user); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// UserHandler handles the profile pages of the current user
type UserHandler struct {
	userService *services.UserService
	sessions    *Sessions
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, sessions *Sessions, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Profile renders the current user
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.userService.GetProfile(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return h.sessions.Render(c, "profile", ports.ProfileView{User: user, FullName: user.FullName()}, nil)
}

// UpdateProfile saves the submitted profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := CurrentUser(c)

	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return h.sessions.Render(c, "profile", req, FieldErrors(err))
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			h.sessions.Flash(c, entities.FlashError, msgUsernameTaken)
			return h.sessions.Render(c, "profile", req, nil)
		}
		return err
	}

	c.Set(userContextKey, updated)
	h.sessions.Flash(c, entities.FlashSuccess, msgProfileUpdated)
	return c.Redirect(http.StatusFound, "/profile/")
}

// PasswordPage renders the password change form
func (h *UserHandler) PasswordPage(c echo.Context) error {
	return h.sessions.Render(c, "change_password", nil, nil)
}

// ChangePassword replaces the password and keeps the current browser
// logged in. Other sessions of the user stop being valid.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := CurrentUser(c)

	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return h.sessions.Render(c, "change_password", nil, FieldErrors(err))
	}

	updated, err := h.userService.ChangePassword(c.Request().Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidPassword) {
			return h.sessions.Render(c, "change_password", nil, map[string]string{"old_password": msgWrongOldPassword})
		}
		return err
	}

	if err := h.sessions.Login(c, updated); err != nil {
		return err
	}
	h.sessions.Flash(c, entities.FlashSuccess, msgPasswordUpdated)
	return c.Redirect(http.StatusFound, "/profile/")
}

// TaskHandler handles the day agenda and task mutations
type TaskHandler struct {
	taskService     *services.TaskService
	calendarService *services.CalendarService
	sessions        *Sessions
	logger          *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, calendarService *services.CalendarService, sessions *Sessions, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		calendarService: calendarService,
		sessions:        sessions,
		logger:          logger,
	}
}

// Day renders the agenda for the date in the path
func (h *TaskHandler) Day(c echo.Context) error {
	date, err := dateFromPath(c)
	if err != nil {
		return err
	}
	return h.renderDay(c, date)
}

// CreateTask adds a task on the date in the path. Without a title nothing
// is created and the agenda is shown again.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	date, err := dateFromPath(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user := CurrentUser(c)
	if _, err := h.taskService.CreateTask(c.Request().Context(), user.ID, date, req); err != nil {
		if errors.Is(err, entities.ErrTitleRequired) {
			return h.renderDay(c, date)
		}
		return err
	}

	h.sessions.Flash(c, entities.FlashSuccess, msgTaskAdded)
	return c.Redirect(http.StatusFound, DayPath(date))
}

// ToggleTask flips completion of the task in the path
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	id, err := taskIDFromPath(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleTask(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return mapError(err)
	}

	h.sessions.Flash(c, entities.FlashSuccess, msgTaskUpdated)
	return c.Redirect(http.StatusFound, DayPath(task.Date))
}

// EditTask updates the submitted fields of the task in the path
func (h *TaskHandler) EditTask(c echo.Context) error {
	id, err := taskIDFromPath(c)
	if err != nil {
		return err
	}

	req, err := editRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), CurrentUser(c).ID, id, req)
	if err != nil {
		return mapError(err)
	}

	h.sessions.Flash(c, entities.FlashSuccess, msgTaskUpdated)
	return c.Redirect(http.StatusFound, DayPath(task.Date))
}

// DeleteTask removes the task in the path
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := taskIDFromPath(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.DeleteTask(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return mapError(err)
	}

	h.sessions.Flash(c, entities.FlashSuccess, msgTaskDeleted)
	return c.Redirect(http.StatusFound, DayPath(task.Date))
}

func (h *TaskHandler) renderDay(c echo.Context, date time.Time) error {
	agenda, err := h.calendarService.DayAgenda(c.Request().Context(), CurrentUser(c).ID, date)
	if err != nil {
		return err
	}
	return h.sessions.Render(c, "day_detail", agenda, nil)
}

// RedirectHome answers non-POST requests to mutation paths.
func RedirectHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}

// DayPath returns the agenda path of date.
func DayPath(date time.Time) string {
	return fmt.Sprintf("/day/%d/%d/%d/", date.Year(), int(date.Month()), date.Day())
}

func dateFromPath(c echo.Context) (time.Time, error) {
	var parts [3]int
	for i, name := range []string{"year", "month", "day"} {
		n, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return time.Time{}, echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		parts[i] = n
	}

	date, err := entities.ValidDate(parts[0], parts[1], parts[2])
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return date, nil
}

func taskIDFromPath(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return id, nil
}

// editRequest marks a field as supplied only when it is present in the form.
func editRequest(c echo.Context) (ports.EditTaskRequest, error) {
	form, err := c.FormParams()
	if err != nil {
		return ports.EditTaskRequest{}, err
	}

	field := func(name string) *string {
		values, ok := form[name]
		if !ok || len(values) == 0 {
			return nil
		}
		v := values[0]
		return &v
	}

	return ports.EditTaskRequest{
		Title:       field("title"),
		Description: field("description"),
		Time:        field("time"),
	}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrInvalidMonth):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid year or month")
	case errors.Is(err, entities.ErrInvalidDate):
		return echo.NewHTTPError(http.StatusNotFound, "Page not found")
	case errors.Is(err, entities.ErrNothingToExport):
		return echo.NewHTTPError(http.StatusNotFound, "No tasks to export for this month")
	}
	return err
}
