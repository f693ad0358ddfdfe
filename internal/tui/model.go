package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/storage"
	"github.com/julianstephens/habitchain/internal/tui/components/habitlist"
	"github.com/julianstephens/habitchain/internal/tui/components/stats"
	"github.com/julianstephens/habitchain/internal/validation"
)

type SessionState int

const (
	StateList SessionState = iota
	StateStats
	StateAddHabit
	StateConfirmDelete
)

type Model struct {
	store         storage.Provider
	engine        *adherence.Engine
	now           func() time.Time
	state         SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	statsModel    stats.Model
	habits        map[string]*models.Habit
	form          *huh.Form
	habitForm     *HabitFormModel
	habitToDelete habitlist.DeleteHabitMsg
	status        string
	warning       string
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel loads every habit from store. now supplies the current instant in
// the display timezone.
func NewModel(store storage.Provider, engine *adherence.Engine, now func() time.Time) Model {
	if engine == nil {
		engine = adherence.New()
	}
	if now == nil {
		now = time.Now
	}
	m := Model{
		store:      store,
		engine:     engine,
		now:        now,
		state:      StateList,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		habitList:  habitlist.New(nil, 0, 0),
		statsModel: stats.New(0, 0),
		habits:     map[string]*models.Habit{},
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateList:
		lk := habitlist.DefaultKeyMap()
		keys = append(keys, lk.Toggle, lk.Add, lk.Delete, lk.Stats)
	case StateStats:
		keys = append(keys, m.keys.Back)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Back}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	lk := habitlist.DefaultKeyMap()
	actions := []key.Binding{lk.Toggle, lk.Add, lk.Delete, lk.Stats}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads habits from the store and recomputes every summary.
func (m *Model) refresh() {
	habits, err := m.store.GetAllHabits()
	if err != nil {
		m.err = err
		logger.Error("Failed to load habits", "error", err)
		return
	}
	summaries, err := m.engine.SummarizeAll(context.Background(), habits, m.now())
	if err != nil {
		m.err = err
		return
	}

	m.habits = make(map[string]*models.Habit, len(habits))
	for _, h := range habits {
		m.habits[h.ID] = h
	}
	m.habitList.SetSummaries(summaries)
	m.updateValidationStatus(habits)
}

// updateValidationStatus summarizes data problems for the status line. The
// full report is available from the validate command.
func (m *Model) updateValidationStatus(habits []*models.Habit) {
	result := validation.WithClock(m.now).ValidateHabits(habits)
	if result.HasConflicts() {
		m.warning = fmt.Sprintf("⚠ %d validation warning(s), run 'habitchain validate'", len(result.Conflicts))
	} else {
		m.warning = ""
	}
}

func (m *Model) showStats(id string) {
	h, ok := m.habits[id]
	if !ok {
		return
	}
	now := m.now()
	m.statsModel.SetSummary(
		m.engine.Summarize(h, now),
		h.CreatedAt.In(now.Location()),
		adherence.Window(h, now, stats.HistoryWeeks*7),
	)
	m.state = StateStats
}
