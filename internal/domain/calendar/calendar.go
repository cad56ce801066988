// Package calendar holds the date arithmetic behind the month view and the
// hourly day agenda.
package calendar

import (
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
)

// Agenda slot bounds, inclusive.
const (
	FirstSlotHour = 4
	LastSlotHour  = 22
)

// Week is one row of a Monday-first month grid. Zero marks a day outside the month.
type Week [7]int

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Validate rejects months outside 1..12 and years outside 1..9999.
func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December || ym.Year < 1 || ym.Year > 9999 {
		return entities.ErrInvalidMonth
	}
	return nil
}

// First returns the first day of the month.
func (ym YearMonth) First() time.Time {
	return entities.Date(ym.Year, ym.Month, 1)
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return entities.Date(ym.Year, ym.Month+1, 0).Day()
}

// Prev returns the previous month, rolling the year over at January.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next returns the following month, rolling the year over at December.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Contains reports whether t falls in the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// Of returns the month t falls in.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// MonthGrid lays the month out in Monday-first weeks.
func MonthGrid(ym YearMonth) []Week {
	// time.Weekday counts from Sunday; shift so Monday is column 0.
	offset := (int(ym.First().Weekday()) + 6) % 7
	days := ym.DaysIn()

	weeks := make([]Week, 0, 6)
	var week Week
	col := offset
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// SlotHours returns the agenda hours from FirstSlotHour through LastSlotHour.
func SlotHours() []int {
	hours := make([]int, 0, LastSlotHour-FirstSlotHour+1)
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// SlotLabel renders an hour on a 12-hour clock, e.g. "04:00 AM".
func SlotLabel(hour int) string {
	return entities.TimeOfDay{Hour: hour}.Label()
}
