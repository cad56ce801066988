package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskmaster/planner/docs"
	httpHandlers "github.com/taskmaster/planner/internal/adapters/http"
	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// HealthChecker is a dependency that can report its availability
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type poolStats interface {
	GetConnectionInfo() map[string]interface{}
}

// Dependencies are the storage adapters the server is built on
type Dependencies struct {
	Users    ports.UserRepository
	Tasks    ports.TaskRepository
	Sessions ports.SessionStore
	DB       HealthChecker
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	deps    Dependencies
	metrics *metrics.Metrics
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = httpHandlers.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		deps:   deps,
	}
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
	}

	// Initialize services
	sessionService := services.NewSessionService(deps.Sessions, deps.Users, cfg.Session, appLogger)
	authService := services.NewAuthService(deps.Users, appLogger)
	userService := services.NewUserService(deps.Users, appLogger)
	taskService := services.NewTaskService(deps.Tasks, appLogger, server.metrics)
	calendarService := services.NewCalendarService(deps.Tasks, appLogger, cfg.App.Name)

	// Initialize handlers
	sessions := httpHandlers.NewSessions(sessionService, cfg.Session, appLogger)
	handlers := routeHandlers{
		sessions: sessions,
		auth:     httpHandlers.NewAuthHandler(authService, sessions, server.metrics, appLogger),
		user:     httpHandlers.NewUserHandler(userService, sessions, appLogger),
		task:     httpHandlers.NewTaskHandler(taskService, calendarService, sessions, appLogger),
		calendar: httpHandlers.NewCalendarHandler(calendarService, sessions, server.metrics, appLogger),
	}

	server.setupMiddleware()
	server.setupRoutes(handlers)

	return server, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type routeHandlers struct {
	sessions *httpHandlers.Sessions
	auth     *httpHandlers.AuthHandler
	user     *httpHandlers.UserHandler
	task     *httpHandlers.TaskHandler
	calendar *httpHandlers.CalendarHandler
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.requestLogger())

	if s.metrics != nil {
		s.echo.Use(s.metricsMiddleware())
	}

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowCredentials: s.config.Security.CORSAllowedOrigins != "*",
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      limiterRate(s.config.Security.RateLimitRequests, s.config.Security.RateLimitWindow),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusForbidden, ports.MessageResponse{Message: "rate limit exceeded"})
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, ports.MessageResponse{Message: "rate limit exceeded"})
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.ContextTimeout(30 * time.Second))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routeHandlers) {
	// Operational routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	// Pages
	pages := s.echo.Group("", h.sessions.Load)

	pages.GET("/login/", h.auth.LoginPage)
	pages.POST("/login/", h.auth.Login)
	pages.GET("/register/", h.auth.RegisterPage)
	pages.POST("/register/", h.auth.Register)
	pages.POST("/logout/", h.auth.Logout)
	pages.GET("/logout/", httpHandlers.RedirectHome)

	private := pages.Group("", h.sessions.RequireLogin)

	private.GET("/", h.calendar.Home)
	private.GET("/calendar/export.ics", h.calendar.Export)

	private.GET("/day/:year/:month/:day/", h.task.Day)
	private.POST("/day/:year/:month/:day/", h.task.CreateTask)

	private.POST("/task/toggle/:id/", h.task.ToggleTask)
	private.POST("/task/delete/:id/", h.task.DeleteTask)
	private.POST("/task/edit/:id/", h.task.EditTask)
	private.GET("/task/toggle/:id/", httpHandlers.RedirectHome)
	private.GET("/task/delete/:id/", httpHandlers.RedirectHome)
	private.GET("/task/edit/:id/", httpHandlers.RedirectHome)

	private.GET("/profile/", h.user.Profile)
	private.POST("/profile/", h.user.UpdateProfile)
	private.GET("/change-password/", h.user.PasswordPage)
	private.POST("/change-password/", h.user.ChangePassword)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.deps.DB.HealthCheck(ctx); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		database := map[string]interface{}{
			"status": "ok",
		}
		if pool, ok := s.deps.DB.(poolStats); ok {
			database["stats"] = pool.GetConnectionInfo()
		}
		checks["database"] = database
	}

	if err := s.deps.Sessions.Ping(ctx); err != nil {
		status = "error"
		checks["redis"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["redis"] = map[string]interface{}{
			"status": "ok",
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	if err := s.deps.DB.HealthCheck(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	if err := s.deps.Sessions.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "session_store_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	srv := &http.Server{
		Addr:         address,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// limiterRate spreads n requests evenly over window, so a visitor that
// spent its burst regains the full allowance after one window.
func limiterRate(n int, window time.Duration) rate.Limit {
	return rate.Every(window / time.Duration(n))
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ports.MessageResponse{Message: msg})
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
