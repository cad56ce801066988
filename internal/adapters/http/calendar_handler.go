package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/domain/calendar"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
)

// CalendarHandler serves the month view and its iCalendar export
type CalendarHandler struct {
	calendarService *services.CalendarService
	sessions        *Sessions
	metrics         *metrics.Metrics
	logger          *logger.Logger
	now             func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, sessions *Sessions, m *metrics.Metrics, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		sessions:        sessions,
		metrics:         m,
		logger:          logger,
		now:             time.Now,
	}
}

// Home renders the month given by the year and month query parameters,
// defaulting to the current month.
func (h *CalendarHandler) Home(c echo.Context) error {
	now := h.now()
	ym, err := yearMonthFromQuery(c, now)
	if err != nil {
		return err
	}

	view, err := h.calendarService.Month(c.Request().Context(), CurrentUser(c).ID, ym, now)
	if err != nil {
		return mapError(err)
	}

	return h.sessions.Render(c, "home", view, nil)
}

// Export writes the month's tasks as an iCalendar attachment
func (h *CalendarHandler) Export(c echo.Context) error {
	now := h.now()
	ym, err := yearMonthFromQuery(c, now)
	if err != nil {
		return err
	}

	cal, err := h.calendarService.ExportMonth(c.Request().Context(), CurrentUser(c).ID, ym, now)
	if err != nil {
		return mapError(err)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		h.logger.WithError(err).Error("Failed to encode calendar")
		return fmt.Errorf("failed to encode calendar: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="planner-%04d-%02d.ics"`, ym.Year, int(ym.Month)))
	h.metrics.RecordExport()
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func yearMonthFromQuery(c echo.Context, now time.Time) (calendar.YearMonth, error) {
	ym := calendar.Of(now)

	if v := c.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return ym, echo.NewHTTPError(http.StatusBadRequest, "Invalid year parameter")
		}
		ym.Year = year
	}

	if v := c.QueryParam("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return ym, echo.NewHTTPError(http.StatusBadRequest, "Invalid month parameter")
		}
		ym.Month = time.Month(month)
	}

	return ym, nil
}
