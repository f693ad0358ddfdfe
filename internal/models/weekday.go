package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday numbers days the way the habit cadence stores them: 1=Sunday through
// 7=Saturday.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf returns the weekday number of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday()) + 1
}

// Valid reports whether w is within 1..7.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// Time converts w to the standard library weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday(w - 1)
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.Time().String()
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (w Weekday) Short() string {
	if !w.Valid() {
		return "???"
	}
	return w.Time().String()[:3]
}

var weekdayNames = map[string]Weekday{
	"sun":       Sunday,
	"sunday":    Sunday,
	"mon":       Monday,
	"monday":    Monday,
	"tue":       Tuesday,
	"tuesday":   Tuesday,
	"wed":       Wednesday,
	"wednesday": Wednesday,
	"thu":       Thursday,
	"thursday":  Thursday,
	"fri":       Friday,
	"friday":    Friday,
	"sat":       Saturday,
	"saturday":  Saturday,
}

// ParseWeekday accepts a day name, its three letter abbreviation or a number
// from 1 (Sunday) to 7 (Saturday).
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(s)
	if err == nil && Weekday(num).Valid() {
		return Weekday(num), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// ParseWeekdays parses a comma-separated list of weekdays.
func ParseWeekdays(s string) ([]Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var weekdays []Weekday
	for _, part := range strings.Split(s, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}
