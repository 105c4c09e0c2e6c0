package report

import (
	"testing"
	"time"

	"moneebunny/internal/core"
)

func TestPeriodWindow(t *testing.T) {
	// Wednesday mid-month, mid-day.
	now := time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    core.BudgetPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "daily spans the calendar day",
			period:    core.PeriodDaily,
			wantStart: time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "weekly starts monday",
			period:    core.PeriodWeekly,
			wantStart: time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly spans the calendar month",
			period:    core.PeriodMonthly,
			wantStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly spans the calendar year",
			period:    core.PeriodYearly,
			wantStart: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := PeriodWindow(tt.period, now)
			if err != nil {
				t.Fatalf("PeriodWindow(%q) error: %v", tt.period, err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestPeriodWindowSundayWeekStart(t *testing.T) {
	// A Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, time.June, 22, 9, 0, 0, 0, time.UTC)

	start, _, err := PeriodWindow(core.PeriodWeekly, sunday)
	if err != nil {
		t.Fatalf("PeriodWindow error: %v", err)
	}
	want := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("week start = %v, want %v", start, want)
	}
}

func TestPeriodWindowUnknownPeriod(t *testing.T) {
	if _, _, err := PeriodWindow(core.BudgetPeriod("decade"), time.Now()); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestMonthWindowDecemberWrapsYear(t *testing.T) {
	start, end := MonthWindow(2025, time.December, time.UTC)

	if got := start.Month(); got != time.December {
		t.Errorf("start month = %v, want December", got)
	}
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}
