package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitchain/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateList:
		content = docStyle.Render(m.habitList.View())
	case StateStats:
		content = docStyle.Render(m.statsModel.View())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	return headerStyle.Render(constants.AppName + " · " + m.now().Format("Mon "+constants.DateFormat))
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.warning != "" {
		line := warningStyle.Render(m.warning)
		if m.status != "" {
			line = statusStyle.Render(m.status) + "  " + line
		}
		return line
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+m.habitToDelete.Title+"\" and its history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
