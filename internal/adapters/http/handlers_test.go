package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

func TestValidatorRegisterRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		req       ports.RegisterRequest
		wantField string
	}{
		{name: "valid", req: ports.RegisterRequest{Username: "alice.b+1@x", Password1: "correct-horse", Password2: "correct-horse"}},
		{name: "missing username", req: ports.RegisterRequest{Password1: "correct-horse", Password2: "correct-horse"}, wantField: "username"},
		{name: "bad username", req: ports.RegisterRequest{Username: "al ice", Password1: "correct-horse", Password2: "correct-horse"}, wantField: "username"},
		{name: "short password", req: ports.RegisterRequest{Username: "alice", Password1: "short", Password2: "short"}, wantField: "password1"},
		{name: "numeric password", req: ports.RegisterRequest{Username: "alice", Password1: "12345678", Password2: "12345678"}, wantField: "password1"},
		{name: "password equals username", req: ports.RegisterRequest{Username: "alice-alice", Password1: "alice-alice", Password2: "alice-alice"}, wantField: "password1"},
		{name: "mismatch", req: ports.RegisterRequest{Username: "alice", Password1: "correct-horse", Password2: "correct-house"}, wantField: "password2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, FieldErrors(err), tt.wantField)
		})
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/day/2024/6/10/", safeNext("/day/2024/6/10/"))
	assert.Equal(t, "/", safeNext("https://evil.example"))
	assert.Equal(t, "/", safeNext("//evil.example"))
	assert.Equal(t, "/", safeNext(`/\evil.example`))
}

func TestDayPath(t *testing.T) {
	assert.Equal(t, "/day/2024/6/10/", DayPath(entities.Date(2024, time.June, 10)))
}

func TestDateFromPath(t *testing.T) {
	e := echo.New()

	tests := []struct {
		year, month, day string
		ok               bool
	}{
		{"2024", "6", "10", true},
		{"2024", "2", "29", true},
		{"2023", "2", "29", false},
		{"2024", "13", "1", false},
		{"2024", "x", "1", false},
	}

	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("year", "month", "day")
		c.SetParamValues(tt.year, tt.month, tt.day)

		_, err := dateFromPath(c)
		if tt.ok {
			assert.NoError(t, err)
			continue
		}
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusNotFound, he.Code)
	}
}

func TestEditRequestPresence(t *testing.T) {
	e := echo.New()
	form := url.Values{"description": {"weekly"}, "time": {""}}
	req := httptest.NewRequest(http.MethodPost, "/task/edit/1/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	edit, err := editRequest(c)
	require.NoError(t, err)
	assert.Nil(t, edit.Title)
	require.NotNil(t, edit.Description)
	assert.Equal(t, "weekly", *edit.Description)
	require.NotNil(t, edit.Time)
	assert.Empty(t, *edit.Time)
}

func TestYearMonthFromQuery(t *testing.T) {
	e := echo.New()
	now := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	ym, err := yearMonthFromQuery(c, now)
	require.NoError(t, err)
	assert.Equal(t, 2024, ym.Year)
	assert.Equal(t, time.June, ym.Month)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?year=2023&month=12", nil), httptest.NewRecorder())
	ym, err = yearMonthFromQuery(c, now)
	require.NoError(t, err)
	assert.Equal(t, 2023, ym.Year)
	assert.Equal(t, time.December, ym.Month)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?month=june", nil), httptest.NewRecorder())
	_, err = yearMonthFromQuery(c, now)
	assert.Error(t, err)
}
