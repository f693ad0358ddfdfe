package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitchain/internal/models"
)

var (
	ErrNoWeekdays  = errors.New("weekly habits need at least one weekday (--days)")
	ErrUnusedFlags = errors.New("flag does not apply to this cadence")
)

// checkFlags rejects flags the cadence would silently ignore.
func checkFlags(t models.CadenceType, days string, day, month int) error {
	var unused []string
	if days != "" && t != models.CadenceWeekly {
		unused = append(unused, "--days")
	}
	if day != 0 && t != models.CadenceMonthly && t != models.CadenceYearly {
		unused = append(unused, "--day")
	}
	if month != 0 && t != models.CadenceYearly {
		unused = append(unused, "--month")
	}
	if len(unused) > 0 {
		return fmt.Errorf("%w: %s not used by %s habits", ErrUnusedFlags, strings.Join(unused, ", "), t)
	}
	return nil
}

// ParseCadence builds a cadence from command-line flags. Monthly and yearly
// targets left at zero default to today's day and month. Flags the cadence
// does not use are an error.
func ParseCadence(kind, days string, day, month int, today time.Time) (models.Cadence, error) {
	t, err := models.ParseCadenceType(kind)
	if err != nil {
		return models.Cadence{}, err
	}
	if err := checkFlags(t, days, day, month); err != nil {
		return models.Cadence{}, err
	}

	var c models.Cadence
	switch t {
	case models.CadenceDaily:
		c = models.Daily()
	case models.CadenceWeekly:
		wds, err := models.ParseWeekdays(days)
		if err != nil {
			return models.Cadence{}, err
		}
		if len(wds) == 0 {
			return models.Cadence{}, ErrNoWeekdays
		}
		c = models.Weekly(wds...)
	case models.CadenceMonthly:
		if day == 0 {
			day = today.Day()
		}
		c = models.Monthly(day)
	case models.CadenceYearly:
		if day == 0 {
			day = today.Day()
		}
		if month == 0 {
			month = int(today.Month())
		}
		c = models.Yearly(day, time.Month(month))
	}

	if err := c.Validate(); err != nil {
		return models.Cadence{}, fmt.Errorf("invalid cadence: %w", err)
	}
	return c, nil
}
