package utils

import "time"

// TimeToMinutes converts time string to minutes since midnight
func TimeToMinutes(timeStr string) int {
	t, _ := time.Parse("15:04", timeStr)
	return t.Hour()*60 + t.Minute()
}

// LogDate returns the calendar day of t in loc, as midnight UTC.
// Every reading is bucketed by this value and nothing else.
func LogDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowStart returns the first log date of a trailing window of days ending
// on the log date of now, inclusive
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	if days < 1 {
		days = 1
	}
	return LogDate(now, loc).AddDate(0, 0, -(days - 1))
}
