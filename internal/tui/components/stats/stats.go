package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/tui/components/habitlist"
)

// HistoryWeeks is how many weeks of history the panel shows.
const HistoryWeeks = 4

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

type Model struct {
	viewport viewport.Model
	Summary  *adherence.Summary
	Since    time.Time
	History  []adherence.Day
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Summary == nil {
		return "No habit selected."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSummary shows s. history should cover HistoryWeeks*7 days ending at
// s.AsOf.
func (m *Model) SetSummary(s adherence.Summary, since time.Time, history []adherence.Day) {
	m.Summary = &s
	m.Since = since
	m.History = history
	m.Render()
}

func (m *Model) Render() {
	if m.Summary == nil {
		m.viewport.SetContent("No habit selected.")
		return
	}
	s := m.Summary

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title) + "\n\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}
	row("Cadence", s.Cadence.String())
	row("Since", m.Since.Format(constants.DateFormat))
	row("Streak", fmt.Sprintf("%d", s.Streak))
	row("Done/Due", fmt.Sprintf("%d/%d", s.Tally.Completed, s.Tally.Required))
	row("Adherence", fmt.Sprintf("%.0f%%", s.Ratio*100))
	row("Status", s.Status.String())

	if len(m.History) > 0 {
		b.WriteString("\n")
		for start := 0; start < len(m.History); start += 7 {
			end := min(start+7, len(m.History))
			fmt.Fprintf(&b, "%s %s\n",
				labelStyle.Render(m.History[start].Date.Format("Jan 02")),
				habitlist.Strip(m.History[start:end]),
			)
		}
	}
	m.viewport.SetContent(b.String())
}
