package play

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"quizhub/internal/quiz"
)

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch m.screen() {
	case screenName:
		return m.handleNameKey(key)
	case screenCatalog:
		return m.handleCatalogKey(key)
	case screenQuestion:
		return m.handleQuestionKey(key)
	case screenGraded:
		return m.handleGradedKey(key)
	case screenFinished:
		return m.handleFinishedKey(key)
	}
	return m, nil
}

func (m Model) handleNameKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		m.busy = true
		m.status = ""
		return m, m.createSessionCmd(strings.TrimSpace(m.nameInput.Value()))
	case tea.KeyEsc:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(key)
	return m, cmd
}

func (m Model) handleCatalogKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.quizzes)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.quizzes) == 0 {
			return m, nil
		}
		m.busy = true
		m.status = ""
		return m, m.selectCmd(m.quizzes[m.cursor].ID)
	case "r":
		m.busy = true
		return m, m.loadQuizzesCmd()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleQuestionKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.view.Question
	if q == nil {
		return m, nil
	}

	if q.Type == quiz.TypeShortAnswer {
		switch key.Type {
		case tea.KeyEnter:
			m.busy = true
			m.status = ""
			return m, m.answerCmd(strings.TrimSpace(m.answerInput.Value()), nil)
		case tea.KeyEsc:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.answerInput, cmd = m.answerInput.Update(key)
		return m, cmd
	}

	options := questionOptions(q)
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case " ":
		if q.Type == quiz.TypeMultiSelect {
			m.picks[m.cursor] = !m.picks[m.cursor]
		}
	case "enter":
		if len(options) == 0 {
			return m, nil
		}
		m.busy = true
		m.status = ""
		if q.Type == quiz.TypeMultiSelect {
			return m, m.answerCmd("", m.pickedValues(options))
		}
		return m, m.answerCmd(options[m.cursor], nil)
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleGradedKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter", "n", " ":
		m.busy = true
		m.status = ""
		return m, m.advanceCmd()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFinishedKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "r":
		m.busy = true
		m.status = ""
		return m, m.restartCmd()
	case "s":
		m.busy = true
		m.status = ""
		return m, m.returnCmd()
	case "v":
		if m.review != nil {
			m.review = nil
			return m, nil
		}
		m.busy = true
		return m, m.reviewCmd()
	case "c":
		m.busy = true
		m.status = ""
		return m, m.certificateCmd()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// pickedValues collects the toggled options in display order.
func (m Model) pickedValues(options []string) []string {
	var values []string
	for i, option := range options {
		if m.picks[i] {
			values = append(values, option)
		}
	}
	return values
}
