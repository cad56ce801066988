package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/calendar"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
	"github.com/taskmaster/planner/internal/ports/portstest"
)

func newCalendarFixture(t *testing.T) (*CalendarService, *TaskService) {
	t.Helper()
	repo := portstest.NewTaskRepository()
	return NewCalendarService(repo, logger.NewNop(), "planner"), NewTaskService(repo, logger.NewNop(), nil)
}

func TestCalendarServiceMonth(t *testing.T) {
	cal, tasks := newCalendarFixture(t)
	ctx := context.Background()
	userID, other := uuid.New(), uuid.New()

	mk := func(user uuid.UUID, day int, title, at string) *entities.Task {
		task, err := tasks.CreateTask(ctx, user, entities.Date(2024, time.June, day), ports.CreateTaskRequest{Title: title, Time: at})
		require.NoError(t, err)
		return task
	}

	done := mk(userID, 10, "Standup", "09:00")
	mk(userID, 10, "Lunch", "")
	mk(userID, 10, "Late", "23:15")
	mk(userID, 30, "Payday", "")
	mk(other, 10, "Not mine", "")
	_, err := tasks.CreateTask(ctx, userID, entities.Date(2024, time.July, 1), ports.CreateTaskRequest{Title: "Next month"})
	require.NoError(t, err)

	_, err = tasks.ToggleTask(ctx, userID, done.ID)
	require.NoError(t, err)

	view, err := cal.Month(ctx, userID, calendar.YearMonth{Year: 2024, Month: time.June}, time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "June", view.MonthName)
	assert.Equal(t, 2024, view.PrevYear)
	assert.Equal(t, 5, view.PrevMonth)
	assert.Equal(t, 7, view.NextMonth)
	require.NotNil(t, view.Today)
	assert.Equal(t, 14, *view.Today)

	require.Len(t, view.Counts, 2)
	assert.Equal(t, 3, view.Counts[10].Total)
	assert.Equal(t, 1, view.Counts[10].Completed)
	assert.Equal(t, 1, view.Counts[30].Total)
	assert.Zero(t, view.Counts[30].Completed)

	for day, c := range view.Counts {
		assert.LessOrEqual(t, c.Completed, c.Total, "day %d", day)
	}
}

func TestCalendarServiceMonthNavigation(t *testing.T) {
	cal, _ := newCalendarFixture(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)

	view, err := cal.Month(ctx, uuid.New(), calendar.YearMonth{Year: 2024, Month: time.January}, now)
	require.NoError(t, err)
	assert.Equal(t, 2023, view.PrevYear)
	assert.Equal(t, 12, view.PrevMonth)
	assert.Equal(t, 2024, view.NextYear)
	assert.Equal(t, 2, view.NextMonth)
	assert.Nil(t, view.Today)

	view, err = cal.Month(ctx, uuid.New(), calendar.YearMonth{Year: 2024, Month: time.December}, now)
	require.NoError(t, err)
	assert.Equal(t, 2025, view.NextYear)
	assert.Equal(t, 1, view.NextMonth)

	_, err = cal.Month(ctx, uuid.New(), calendar.YearMonth{Year: 2024, Month: 13}, now)
	assert.ErrorIs(t, err, entities.ErrInvalidMonth)
}

func TestCalendarServiceDayAgenda(t *testing.T) {
	cal, tasks := newCalendarFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	date := entities.Date(2024, time.June, 10)

	standup, err := tasks.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Standup"})
	require.NoError(t, err)
	review, err := tasks.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Review", Time: "09:00"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Coffee", Time: "09:30"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Insomnia", Time: "02:00"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, userID, date.AddDate(0, 0, 1), ports.CreateTaskRequest{Title: "Tomorrow", Time: "09:00"})
	require.NoError(t, err)

	agenda, err := cal.DayAgenda(ctx, userID, date)
	require.NoError(t, err)

	assert.Len(t, agenda.Tasks, 4)
	assert.Equal(t, 10, agenda.Day)
	assert.Equal(t, entities.Date(2024, time.June, 9), agenda.Prev)
	assert.Equal(t, entities.Date(2024, time.June, 11), agenda.Next)

	require.Len(t, agenda.Slots, 19)
	assert.Equal(t, 4, agenda.Slots[0].Hour)
	assert.Equal(t, "04:00 AM", agenda.Slots[0].Label)
	assert.Equal(t, 22, agenda.Slots[18].Hour)
	assert.Equal(t, "10:00 PM", agenda.Slots[18].Label)

	slotted := 0
	for _, slot := range agenda.Slots {
		for _, task := range slot.Tasks {
			slotted++
			assert.Equal(t, 9, slot.Hour)
			assert.Equal(t, review.ID, task.ID)
			assert.NotEqual(t, standup.ID, task.ID)
		}
	}
	assert.Equal(t, 1, slotted)
	assert.Equal(t, "09:00 AM", agenda.Slots[5].Label)
	assert.Len(t, agenda.Slots[5].Tasks, 1)
}

func TestCalendarServiceExportMonth(t *testing.T) {
	cal, tasks := newCalendarFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	timed, err := tasks.CreateTask(ctx, userID, entities.Date(2024, time.June, 10), ports.CreateTaskRequest{Title: "Standup", Time: "09:00", Description: "daily"})
	require.NoError(t, err)
	_, err = tasks.ToggleTask(ctx, userID, timed.ID)
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, userID, entities.Date(2024, time.June, 11), ports.CreateTaskRequest{Title: "Errands"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, userID, entities.Date(2024, time.July, 1), ports.CreateTaskRequest{Title: "Later"})
	require.NoError(t, err)

	now := time.Date(2024, time.June, 14, 12, 0, 0, 0, time.UTC)
	out, err := cal.ExportMonth(ctx, userID, calendar.YearMonth{Year: 2024, Month: time.June}, now)
	require.NoError(t, err)
	require.Len(t, out.Children, 2)

	first := out.Children[0]
	assert.Equal(t, ical.CompToDo, first.Name)
	assert.Equal(t, "Standup", first.Props.Get(ical.PropSummary).Value)
	assert.Equal(t, "20240610T090000", first.Props.Get(ical.PropDue).Value)
	assert.Equal(t, "COMPLETED", first.Props.Get(ical.PropStatus).Value)

	second := out.Children[1]
	assert.Equal(t, "20240611", second.Props.Get(ical.PropDue).Value)
	assert.Equal(t, "NEEDS-ACTION", second.Props.Get(ical.PropStatus).Value)
	assert.Nil(t, second.Props.Get(ical.PropDescription))

	var buf bytes.Buffer
	require.NoError(t, ical.NewEncoder(&buf).Encode(out))
	assert.Contains(t, buf.String(), "BEGIN:VTODO")
	assert.Contains(t, buf.String(), "UID:task-")
}

func TestCalendarServiceExportEmptyMonth(t *testing.T) {
	cal, tasks := newCalendarFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := tasks.CreateTask(ctx, userID, entities.Date(2024, time.July, 1), ports.CreateTaskRequest{Title: "Later"})
	require.NoError(t, err)

	_, err = cal.ExportMonth(ctx, userID, calendar.YearMonth{Year: 2024, Month: time.June}, time.Now())
	assert.ErrorIs(t, err, entities.ErrNothingToExport)
}
