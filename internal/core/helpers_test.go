package core

import "time"

func dateFixture(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func timeZero() time.Time {
	return time.Time{}
}
