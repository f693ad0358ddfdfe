package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitchain/internal/adherence"
)

const (
	MarkDone    = "✓"
	MarkOpen    = "○"
	MarkNotDue  = "·"
	MarkStreak  = "🔥"
	titleColumn = 24
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	DoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	OpenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	statusColors = map[adherence.Status]lipgloss.Color{
		adherence.StatusPerfect:    "42",
		adherence.StatusGreat:      "78",
		adherence.StatusGood:       "214",
		adherence.StatusOngoing:    "208",
		adherence.StatusNotStarted: "241",
	}
)

// Mark renders one day of the recent-days strip.
func Mark(d adherence.Day) string {
	switch {
	case d.Completed:
		return DoneStyle.Render(MarkDone)
	case d.Due:
		return OpenStyle.Render(MarkOpen)
	default:
		return MutedStyle.Render(MarkNotDue)
	}
}

func Strip(days []adherence.Day) string {
	marks := make([]string, len(days))
	for i, d := range days {
		marks[i] = Mark(d)
	}
	return strings.Join(marks, " ")
}

func StatusLabel(s adherence.Status) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(s.String())
}

func Percent(ratio float64) string {
	return fmt.Sprintf("%3.0f%%", ratio*100)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// PadTitle truncates and left-aligns a title to the table column width.
func PadTitle(s string) string {
	return lipgloss.NewStyle().Width(titleColumn).Render(Truncate(s, titleColumn-1))
}
