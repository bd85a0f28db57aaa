package calendar

import "time"

// AddDays returns d moved by n calendar days. n may be negative.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddBusinessDays steps one day at a time in the direction of n, counting
// only Monday to Friday, until |n| weekdays have been consumed. Holidays are
// not considered.
func (d Date) AddBusinessDays(n int) Date {
	step := 1
	remaining := n
	if n < 0 {
		step = -1
		remaining = -n
	}

	current := d.Time()
	for remaining > 0 {
		current = current.AddDate(0, 0, step)
		if isWeekend(current.Weekday()) {
			continue
		}
		remaining--
	}
	return FromTime(current)
}

// AddHours adds n whole hours to midnight of d and returns the resulting
// calendar day. Sub-day precision is discarded.
func (d Date) AddHours(n int) Date {
	return FromTime(d.Time().Add(time.Duration(n) * time.Hour))
}

func isWeekend(w time.Weekday) bool {
	return w == time.Saturday || w == time.Sunday
}
