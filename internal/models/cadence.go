package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitchain/internal/utils"
)

// CadenceType is the discriminator of the Cadence tagged union.
type CadenceType string

const (
	CadenceDaily   CadenceType = "daily"
	CadenceWeekly  CadenceType = "weekly"
	CadenceMonthly CadenceType = "monthly"
	CadenceYearly  CadenceType = "yearly"
)

// ParseCadenceType maps user input onto a CadenceType.
func ParseCadenceType(s string) (CadenceType, error) {
	switch ct := CadenceType(strings.TrimSpace(strings.ToLower(s))); ct {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return ct, nil
	default:
		return "", fmt.Errorf("%w: unknown cadence %q", ErrInvalidCadence, s)
	}
}

// Cadence decides which calendar dates a habit is due on.
//
// Only the fields belonging to Type are consulted: Weekdays for weekly, Day for
// monthly, Day and Month for yearly. A weekly cadence without weekdays, or a
// monthly/yearly cadence missing its targets, is valid but never due.
type Cadence struct {
	Type     CadenceType `json:"type"`
	Weekdays []Weekday   `json:"weekdays,omitempty"`
	Day      *int        `json:"day,omitempty"`
	Month    *int        `json:"month,omitempty"`
}

func Daily() Cadence {
	return Cadence{Type: CadenceDaily}
}

func Weekly(days ...Weekday) Cadence {
	return Cadence{Type: CadenceWeekly, Weekdays: normalizeWeekdays(days)}
}

func Monthly(day int) Cadence {
	return Cadence{Type: CadenceMonthly, Day: &day}
}

func Yearly(day int, month time.Month) Cadence {
	m := int(month)
	return Cadence{Type: CadenceYearly, Day: &day, Month: &m}
}

// Validate rejects out-of-range parameters. Missing targets are allowed.
func (c Cadence) Validate() error {
	switch c.Type {
	case CadenceDaily:
		return nil
	case CadenceWeekly:
		for _, wd := range c.Weekdays {
			if !wd.Valid() {
				return fmt.Errorf("%w: %d (expected 1-7)", ErrInvalidWeekday, int(wd))
			}
		}
		return nil
	case CadenceMonthly:
		if c.Day != nil && (*c.Day < 1 || *c.Day > 31) {
			return fmt.Errorf("%w: %d (expected 1-31)", ErrInvalidDay, *c.Day)
		}
		return nil
	case CadenceYearly:
		if c.Month != nil && (*c.Month < 1 || *c.Month > 12) {
			return fmt.Errorf("%w: %d (expected 1-12)", ErrInvalidMonth, *c.Month)
		}
		if c.Day != nil {
			// 2000 is a leap year, so Feb 29 stays schedulable
			maxDay := 31
			if c.Month != nil {
				maxDay = utils.DaysInMonth(2000, time.Month(*c.Month))
			}
			if *c.Day < 1 || *c.Day > maxDay {
				return fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidDay, *c.Day, maxDay)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown cadence %q", ErrInvalidCadence, c.Type)
	}
}

// Matches reports whether date is a due date under this cadence. The date is
// interpreted in its own location.
func (c Cadence) Matches(date time.Time) bool {
	switch c.Type {
	case CadenceDaily:
		return true
	case CadenceWeekly:
		return slices.Contains(c.Weekdays, WeekdayOf(date))
	case CadenceMonthly:
		if c.Day == nil {
			return false
		}
		return date.Day() == *c.Day
	case CadenceYearly:
		if c.Day == nil || c.Month == nil {
			return false
		}
		return date.Day() == *c.Day && int(date.Month()) == *c.Month
	default:
		return false
	}
}

func (c Cadence) String() string {
	switch c.Type {
	case CadenceDaily:
		return "daily"
	case CadenceWeekly:
		if len(c.Weekdays) == 0 {
			return "weekly (no days)"
		}
		days := make([]string, len(c.Weekdays))
		for i, wd := range c.Weekdays {
			days[i] = wd.Short()
		}
		return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
	case CadenceMonthly:
		if c.Day == nil {
			return "monthly (no day)"
		}
		return fmt.Sprintf("monthly on day %d", *c.Day)
	case CadenceYearly:
		if c.Day == nil || c.Month == nil {
			return "yearly (no date)"
		}
		return fmt.Sprintf("yearly on %s %d", time.Month(*c.Month).String()[:3], *c.Day)
	default:
		return "unknown"
	}
}

// Value stores the cadence as a JSON document.
func (c Cadence) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cadence: %w", err)
	}
	return string(data), nil
}

// Scan decodes a cadence previously written by Value.
func (c *Cadence) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*c = Cadence{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Cadence", src)
	}
	var decoded Cadence
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode cadence: %w", err)
	}
	*c = decoded
	return nil
}

// normalizeWeekdays sorts and deduplicates a weekday set.
func normalizeWeekdays(days []Weekday) []Weekday {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}
