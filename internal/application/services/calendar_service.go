package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/calendar"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
)

const icalFloatingLayout = "20060102T150405"

// CalendarService builds the read-only month and day views
type CalendarService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	appName  string
}

// NewCalendarService creates a new calendar service
func NewCalendarService(taskRepo ports.TaskRepository, logger *logger.Logger, appName string) *CalendarService {
	return &CalendarService{
		taskRepo: taskRepo,
		logger:   logger.WithComponent("calendar"),
		appName:  appName,
	}
}

// Month returns the grid of ym with the user's per-day task counts. Today
// is set only when now falls inside ym.
func (s *CalendarService) Month(ctx context.Context, userID uuid.UUID, ym calendar.YearMonth, now time.Time) (*ports.MonthView, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.CountByDay(ctx, userID, ym.First(), ym.Next().First())
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	prev, next := ym.Prev(), ym.Next()
	view := &ports.MonthView{
		Weeks:     calendar.MonthGrid(ym),
		Year:      ym.Year,
		Month:     int(ym.Month),
		MonthName: ym.Month.String(),
		Counts:    make(map[int]entities.DayCount, len(counts)),
		PrevYear:  prev.Year,
		PrevMonth: int(prev.Month),
		NextYear:  next.Year,
		NextMonth: int(next.Month),
	}

	for _, c := range counts {
		view.Counts[c.Date.Day()] = c
	}

	if ym.Contains(now) {
		today := now.Day()
		view.Today = &today
	}

	return view, nil
}

// DayAgenda lists the user's tasks on date and buckets those scheduled
// exactly on an hour between FirstSlotHour and LastSlotHour.
func (s *CalendarService) DayAgenda(ctx context.Context, userID uuid.UUID, date time.Time) (*ports.DayAgenda, error) {
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{UserID: userID, Date: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	hours := calendar.SlotHours()
	slots := make([]ports.HourSlot, 0, len(hours))
	for _, hour := range hours {
		slot := ports.HourSlot{
			Hour:  hour,
			Label: calendar.SlotLabel(hour),
			Tasks: []*entities.Task{},
		}
		for _, task := range tasks {
			if task.OnHour(hour) {
				slot.Tasks = append(slot.Tasks, task)
			}
		}
		slots = append(slots, slot)
	}

	return &ports.DayAgenda{
		Date:  date,
		Year:  date.Year(),
		Month: int(date.Month()),
		Day:   date.Day(),
		Tasks: tasks,
		Slots: slots,
		Prev:  date.AddDate(0, 0, -1),
		Next:  date.AddDate(0, 0, 1),
	}, nil
}

// ExportMonth renders the user's tasks in ym as VTODO components. Timed
// tasks carry a floating local DUE, untimed ones a DATE value.
func (s *CalendarService) ExportMonth(ctx context.Context, userID uuid.UUID, ym calendar.YearMonth, now time.Time) (*ical.Calendar, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}

	from, to := ym.First(), ym.Next().First()
	tasks, err := s.taskRepo.List(ctx, ports.TaskFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	// a VCALENDAR must carry at least one component
	if len(tasks) == 0 {
		return nil, entities.ErrNothingToExport
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, fmt.Sprintf("-//%s//Planner//EN", s.appName))

	for _, task := range tasks {
		cal.Children = append(cal.Children, s.todo(task, now))
	}

	s.logger.Debugw("Calendar exported", "user_id", userID, "year", ym.Year, "month", int(ym.Month), "tasks", len(tasks))
	return cal, nil
}

func (s *CalendarService) todo(task *entities.Task, now time.Time) *ical.Component {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, fmt.Sprintf("task-%d@%s", task.ID, s.appName))
	todo.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	todo.Props.SetText(ical.PropSummary, task.Title)
	if task.Description != "" {
		todo.Props.SetText(ical.PropDescription, task.Description)
	}

	if task.Time != nil {
		due := ical.NewProp(ical.PropDue)
		due.SetValueType(ical.ValueDateTime)
		due.Value = task.Time.At(task.Date).Format(icalFloatingLayout)
		todo.Props.Set(due)
	} else {
		todo.Props.SetDate(ical.PropDue, task.Date)
	}

	status := "NEEDS-ACTION"
	if task.Completed {
		status = "COMPLETED"
	}
	todo.Props.SetText(ical.PropStatus, status)

	if !task.CreatedAt.IsZero() {
		todo.Props.SetDateTime(ical.PropCreated, task.CreatedAt.UTC())
	}
	if !task.UpdatedAt.IsZero() {
		todo.Props.SetDateTime(ical.PropLastModified, task.UpdatedAt.UTC())
	}

	return todo
}
