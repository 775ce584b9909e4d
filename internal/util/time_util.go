package util

import (
	"time"
)

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// TruncateDay drops the clock part, keeping the calendar day of t
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekEndingFriday is the friday closing the saturday-to-friday week
// that contains t
func WeekEndingFriday(t time.Time) time.Time {
	d := TruncateDay(t)
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

func MonthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
