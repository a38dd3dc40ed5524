package forecast

import "time"

// DaysInMonth returns the number of days of month in year
func DaysInMonth(month time.Month, year int) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth caps day at the last day of the month, so a 31st
// recurrence lands on the 28th/29th in February and the 30th in April.
// Days below 1 are raised to 1.
func ClampDayToMonth(day int, month time.Month, year int) int {
	if day < 1 {
		return 1
	}
	if last := DaysInMonth(month, year); day > last {
		return last
	}
	return day
}

// MonthBounds returns the first and last instant of a month in loc
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func monthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

func dateIn(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, ClampDayToMonth(day, month, year), 0, 0, 0, 0, loc)
}
