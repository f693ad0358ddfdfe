package adherence

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/utils"
)

// Day is the rendering pair for a single calendar date.
type Day struct {
	Date      time.Time `json:"date"`
	Due       bool      `json:"due"`
	Completed bool      `json:"completed"`
	Today     bool      `json:"today"`
}

// Open reports a due day that has not been completed yet.
func (d Day) Open() bool {
	return d.Due && !d.Completed
}

// Window returns n consecutive days ending at end (inclusive), oldest first.
// The last entry is flagged Today.
func Window(h *models.Habit, end time.Time, n int) []Day {
	if n <= 0 {
		return nil
	}
	last := utils.StartOfDay(end)
	days := make([]Day, n)
	for i := range days {
		d := utils.AddDays(last, i-(n-1))
		days[i] = Day{
			Date:      d,
			Due:       h.IsDue(d),
			Completed: h.IsCompleted(d),
			Today:     i == n-1,
		}
	}
	return days
}

// Summary bundles everything the UI shows for one habit on one day.
type Summary struct {
	HabitID string         `json:"habit_id"`
	Title   string         `json:"title"`
	Cadence models.Cadence `json:"cadence"`
	AsOf    time.Time      `json:"as_of"`
	Today   Day            `json:"today"`
	Streak  int            `json:"streak"`
	Tally   Tally          `json:"tally"`
	Ratio   float64        `json:"ratio"`
	Status  Status         `json:"status"`
	Recent  []Day          `json:"recent"`
}

func (e *Engine) Summarize(h *models.Habit, asOf time.Time) Summary {
	tally := e.Tally(h, asOf)
	ratio := tally.Ratio()
	recent := Window(h, asOf, e.WindowDays)
	today := Window(h, asOf, 1)[0]

	return Summary{
		HabitID: h.ID,
		Title:   h.Title,
		Cadence: h.Cadence,
		AsOf:    asOf,
		Today:   today,
		Streak:  e.Streak(h, asOf),
		Tally:   tally,
		Ratio:   ratio,
		Status:  StatusFor(ratio),
		Recent:  recent,
	}
}

// SummarizeAll computes summaries for every habit in parallel. The result is
// index-aligned with habits.
func (e *Engine) SummarizeAll(ctx context.Context, habits []*models.Habit, asOf time.Time) ([]Summary, error) {
	start := time.Now()
	out := make([]Summary, len(habits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range habits {
		i, h := i, h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Summarize(h, asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Summarized habits", "count", len(habits), "elapsed", time.Since(start))
	return out, nil
}
