package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
)

const (
	sessionContextKey = "session"
	userContextKey    = "user"
)

// Sessions binds the browser session cookie to the request context and
// renders pages with the queued flash messages.
type Sessions struct {
	service *services.SessionService
	cfg     config.SessionConfig
	logger  *logger.Logger
}

// NewSessions creates the session glue for handlers
func NewSessions(service *services.SessionService, cfg config.SessionConfig, logger *logger.Logger) *Sessions {
	return &Sessions{
		service: service,
		cfg:     cfg,
		logger:  logger.WithComponent("http_session"),
	}
}

// Load resolves the session cookie, if any. Stale cookies are cleared and
// the request continues anonymously.
func (s *Sessions) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(s.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		session, user, err := s.service.Resolve(c.Request().Context(), cookie.Value)
		switch {
		case errors.Is(err, entities.ErrSessionNotFound):
			s.clearCookie(c)
		case err != nil:
			return err
		default:
			c.Set(sessionContextKey, session)
			if user != nil {
				c.Set(userContextKey, user)
			}
		}

		return next(c)
	}
}

// RequireLogin redirects anonymous visitors to the login page, keeping
// the requested path in "next".
func (s *Sessions) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			target := "/login/?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c echo.Context) *entities.User {
	user, _ := c.Get(userContextKey).(*entities.User)
	return user
}

// CurrentSession returns the request session or nil
func CurrentSession(c echo.Context) *entities.Session {
	session, _ := c.Get(sessionContextKey).(*entities.Session)
	return session
}

// Login starts an authenticated session for user and sets its cookie.
func (s *Sessions) Login(c echo.Context, user *entities.User) error {
	session, err := s.service.Login(c.Request().Context(), CurrentSession(c), user)
	if err != nil {
		return err
	}
	if err := s.setCookie(c, session); err != nil {
		return err
	}
	c.Set(sessionContextKey, session)
	c.Set(userContextKey, user)
	return nil
}

// Logout destroys the session and expires the cookie.
func (s *Sessions) Logout(c echo.Context) error {
	if err := s.service.Destroy(c.Request().Context(), CurrentSession(c)); err != nil {
		return err
	}
	s.clearCookie(c)
	c.Set(sessionContextKey, nil)
	c.Set(userContextKey, nil)
	return nil
}

// Flash queues a message for the next rendered page. Failures are logged
// and otherwise ignored; a lost message must not fail the request.
func (s *Sessions) Flash(c echo.Context, level entities.FlashLevel, message string) {
	current := CurrentSession(c)
	session, err := s.service.AddFlash(c.Request().Context(), current, level, message)
	if err != nil {
		s.logger.Warnw("Failed to queue flash message", "error", err)
		return
	}
	if current == nil {
		if err := s.setCookie(c, session); err != nil {
			s.logger.Warnw("Failed to set session cookie", "error", err)
			return
		}
		c.Set(sessionContextKey, session)
	}
}

// Page is the JSON view model written for every rendered page.
type Page struct {
	Page     string            `json:"page"`
	User     *entities.User    `json:"user,omitempty"`
	Messages []entities.Flash  `json:"messages"`
	Errors   map[string]string `json:"errors,omitempty"`
	Data     interface{}       `json:"data,omitempty"`
}

// Render writes a page with the pending flash messages, which are consumed.
func (s *Sessions) Render(c echo.Context, name string, data interface{}, fieldErrors map[string]string) error {
	flashes, err := s.service.PopFlashes(c.Request().Context(), CurrentSession(c))
	if err != nil {
		s.logger.Warnw("Failed to read flash messages", "error", err)
	}
	if flashes == nil {
		flashes = []entities.Flash{}
	}

	return c.JSON(http.StatusOK, Page{
		Page:     name,
		User:     CurrentUser(c),
		Messages: flashes,
		Errors:   fieldErrors,
		Data:     data,
	})
}

func (s *Sessions) setCookie(c echo.Context, session *entities.Session) error {
	token, err := s.service.Token(session)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Sessions) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
