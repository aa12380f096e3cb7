// Package schedule decides which chore assignments are due on a calendar day.
package schedule

import (
	"strings"
	"time"

	"chorechart/internal/utils"
)

// DayLayout is the calendar-day key stored with completions and stars.
const DayLayout = "2006-01-02"

// Frequency is a recurrence rule for a chore assignment
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekdays  Frequency = "weekdays"
	Weekends  Frequency = "weekends"
	Monday    Frequency = "monday"
	Tuesday   Frequency = "tuesday"
	Wednesday Frequency = "wednesday"
	Thursday  Frequency = "thursday"
	Friday    Frequency = "friday"
	Saturday  Frequency = "saturday"
	Sunday    Frequency = "sunday"
)

var weekdayFrequencies = map[time.Weekday]Frequency{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// All lists every accepted frequency
func All() []Frequency {
	return []Frequency{Daily, Weekdays, Weekends, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Parse normalises a frequency string and rejects unknown values
func Parse(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", utils.ValidationError{Field: "frequency", Message: "frequency must be daily, weekdays, weekends or a day of the week"}
	}
	return f, nil
}

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekdays, Weekends:
		return true
	}
	for _, day := range weekdayFrequencies {
		if f == day {
			return true
		}
	}
	return false
}

// IsDue reports whether the rule applies on the weekday of day.
// Unknown frequencies are never due.
func (f Frequency) IsDue(day time.Time) bool {
	weekday := day.Weekday()
	switch f {
	case Daily:
		return true
	case Weekdays:
		return weekday >= time.Monday && weekday <= time.Friday
	case Weekends:
		return weekday == time.Saturday || weekday == time.Sunday
	}
	return weekdayFrequencies[weekday] == f
}

// IsDue evaluates a stored frequency string against day
func IsDue(freq string, day time.Time) bool {
	f, err := Parse(freq)
	if err != nil {
		return false
	}
	return f.IsDue(day)
}

// Day returns the calendar-day key for t in t's location
func Day(t time.Time) string {
	return t.Format(DayLayout)
}
