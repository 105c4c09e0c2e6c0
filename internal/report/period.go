// Package report computes derived spending aggregates on demand.
// Nothing here is persisted; every report is recomputed from the store.
package report

import (
	"fmt"
	"time"

	"moneebunny/internal/core"
)

// WindowResolver is the strategy interface for locating the current
// accounting window of a budget period.
type WindowResolver interface {
	// Window returns the half-open interval [start, end) containing now.
	Window(now time.Time) (start, end time.Time)
}

// DailyWindow resolves to the calendar day containing now.
type DailyWindow struct{}

func (DailyWindow) Window(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeeklyWindow resolves to the ISO week (Monday start) containing now.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthlyWindow resolves to the calendar month containing now.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// YearlyWindow resolves to the calendar year containing now.
type YearlyWindow struct{}

func (YearlyWindow) Window(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(1, 0, 0)
}

var windowResolvers = map[core.BudgetPeriod]WindowResolver{
	core.PeriodDaily:   DailyWindow{},
	core.PeriodWeekly:  WeeklyWindow{},
	core.PeriodMonthly: MonthlyWindow{},
	core.PeriodYearly:  YearlyWindow{},
}

// PeriodWindow returns the current accounting window for a budget period.
func PeriodWindow(p core.BudgetPeriod, now time.Time) (time.Time, time.Time, error) {
	resolver, ok := windowResolvers[p]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown budget period: %s", p)
	}
	start, end := resolver.Window(now)
	return start, end, nil
}

// MonthWindow returns the [start, end) interval of a calendar month in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayWindow returns the [start, end) interval of the calendar day
// containing t, in t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	return DailyWindow{}.Window(t)
}
