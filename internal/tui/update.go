package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
	"github.com/julianstephens/habitchain/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-4)
		m.statsModel.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateStats:
		return m.updateStats(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.habitList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habitlist.ToggleHabitMsg:
		done, err := m.store.ToggleCompletion(msg.ID, m.now())
		if err != nil {
			m.err = err
			logger.Error("Failed to toggle completion", "habit", msg.ID, "error", err)
			return m, nil
		}
		m.err = nil
		if h, ok := m.habits[msg.ID]; ok {
			if done {
				m.status = fmt.Sprintf("Marked %q done", h.Title)
			} else {
				m.status = fmt.Sprintf("Unmarked %q", h.Title)
			}
		}
		m.refresh()
		return m, nil

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Cadence: models.CadenceDaily}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.habitToDelete = msg
		m.state = StateConfirmDelete
		return m, nil

	case habitlist.ShowStatsMsg:
		m.showStats(msg.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.habitList, cmd = m.habitList.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateList
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.addHabit(); err != nil {
			// Stay in the form so the user can fix the input or cancel with ESC
			m.err = err
			m.form.State = huh.StateNormal
			break
		}
		m.state = StateList
	case huh.StateAborted:
		m.state = StateList
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) addHabit() error {
	h, err := m.habitForm.Habit(m.now())
	if err != nil {
		return err
	}
	if err := m.store.AddHabit(h); err != nil {
		return err
	}
	m.err = nil
	m.status = fmt.Sprintf("Added %q", h.Title)
	m.refresh()
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.DeleteHabit(m.habitToDelete.ID); err != nil {
			m.err = err
			logger.Error("Failed to delete habit", "habit", m.habitToDelete.ID, "error", err)
		} else {
			m.err = nil
			m.status = fmt.Sprintf("Deleted %q", m.habitToDelete.Title)
			m.refresh()
		}
		m.habitToDelete = habitlist.DeleteHabitMsg{}
		m.state = StateList
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDelete = habitlist.DeleteHabitMsg{}
		m.state = StateList
	}
	return m, nil
}

func (m Model) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Back):
			m.state = StateList
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.statsModel, cmd = m.statsModel.Update(msg)
	return m, cmd
}
