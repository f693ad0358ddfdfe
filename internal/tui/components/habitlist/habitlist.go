package habitlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitchain/internal/adherence"
)

const (
	markDone   = "✓"
	markOpen   = "○"
	markNotDue = "·"
	markStreak = "🔥"
)

var (
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	notDueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID    string
	Title string
}

type ShowStatsMsg struct {
	ID string
}

type Item struct {
	Summary adherence.Summary
}

func (i Item) Title() string {
	title := i.Summary.Title
	if i.Summary.Streak > 0 {
		title += fmt.Sprintf(" %s %d", markStreak, i.Summary.Streak)
	}
	return title
}

func (i Item) Description() string {
	return Strip(i.Summary.Recent) + "  " + i.Summary.Cadence.String()
}

func (i Item) FilterValue() string { return i.Summary.Title }

// Strip renders the recent-days window as a row of marks, oldest first.
func Strip(days []adherence.Day) string {
	marks := make([]string, len(days))
	for i, d := range days {
		switch {
		case d.Completed:
			marks[i] = doneStyle.Render(markDone)
		case d.Due:
			marks[i] = openStyle.Render(markOpen)
		default:
			marks[i] = notDueStyle.Render(markNotDue)
		}
	}
	return strings.Join(marks, " ")
}

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding
	Stats  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle today"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stats"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(summaries []adherence.Summary, width, height int) Model {
	l := list.New(items(summaries), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete, keys.Stats}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete, keys.Stats}
	}

	return Model{list: l, keys: keys}
}

func items(summaries []adherence.Summary) []list.Item {
	out := make([]list.Item, len(summaries))
	for i, s := range summaries {
		out[i] = Item{Summary: s}
	}
	return out
}

// SetSummaries replaces the rows and keeps the cursor in range.
func (m *Model) SetSummaries(summaries []adherence.Summary) {
	idx := m.list.Index()
	m.list.SetItems(items(summaries))
	if n := len(summaries); n > 0 {
		m.list.Select(min(idx, n-1))
	}
}

func (m Model) Selected() (adherence.Summary, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Summary, ok
}

// Filtering reports whether the user is typing a filter, in which case keys
// belong to the filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: s.HabitID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: s.HabitID, Title: s.Title} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ShowStatsMsg{ID: s.HabitID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
