package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizhub/internal/quiz"
)

var (
	colorHeader  = lipgloss.Color("33")
	colorDim     = lipgloss.Color("242")
	colorCursor  = lipgloss.Color("205")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("161")
	colorStatus  = lipgloss.Color("178")
)

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.screen() {
	case screenName:
		body = m.renderName()
	case screenCatalog:
		body = m.renderCatalog()
	case screenQuestion:
		body = m.renderQuestion()
	case screenGraded:
		body = m.renderGraded()
	case screenFinished:
		body = m.renderFinished()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", body, "", m.renderFooter())
}

func (m Model) renderHeader() string {
	line := "Quiz Hub"
	if m.view.StudentName != "" {
		line += " | " + m.view.StudentName
	}
	if m.view.QuizTitle != "" {
		line += " | " + m.view.QuizTitle
	}
	if m.view.Total > 0 {
		line += fmt.Sprintf(" | Score %d/%d", m.view.Score, m.view.Total)
	}
	return m.stylize(line, colorHeader)
}

func (m Model) renderFooter() string {
	if m.busy {
		return m.stylize("Working...", colorDim)
	}
	if m.status != "" {
		return m.stylize(m.status, colorStatus)
	}
	return ""
}

func (m Model) renderName() string {
	return strings.Join([]string{
		"Welcome! What should the certificate call you?",
		"",
		m.nameInput.View(),
		"",
		m.stylize("enter: continue  esc: quit", colorDim),
	}, "\n")
}

func (m Model) renderCatalog() string {
	if len(m.quizzes) == 0 {
		return strings.Join([]string{
			"No quizzes available.",
			"",
			m.stylize("r: reload  q: quit", colorDim),
		}, "\n")
	}

	lines := []string{"Select a quiz:", ""}
	for i, entry := range m.quizzes {
		line := "  " + entry.Title
		if i == m.cursor {
			line = m.stylize("> "+entry.Title, colorCursor)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", m.stylize("enter: start  r: reload  q: quit", colorDim))
	return strings.Join(lines, "\n")
}

func (m Model) renderQuestion() string {
	q := m.view.Question
	if q == nil {
		return ""
	}

	lines := []string{
		m.stylize(fmt.Sprintf("Question %d of %d", m.view.Index+1, m.view.Total), colorDim),
		"",
		m.wrap(q.Prompt),
		"",
	}

	if q.Type == quiz.TypeShortAnswer {
		lines = append(lines, m.answerInput.View(), "", m.stylize("enter: submit  esc: quit", colorDim))
		return strings.Join(lines, "\n")
	}

	for i, option := range questionOptions(q) {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		if q.Type == quiz.TypeMultiSelect {
			box := "[ ] "
			if m.picks[i] {
				box = "[x] "
			}
			option = box + option
		}
		line := marker + option
		if i == m.cursor {
			line = m.stylize(line, colorCursor)
		}
		lines = append(lines, line)
	}

	hint := "enter: submit  q: quit"
	if q.Type == quiz.TypeMultiSelect {
		hint = "space: toggle  " + hint
	}
	lines = append(lines, "", m.stylize(hint, colorDim))
	return strings.Join(lines, "\n")
}

func (m Model) renderGraded() string {
	q := m.view.Question
	g := m.view.Graded
	if q == nil || g == nil {
		return ""
	}

	verdict := m.stylize("Incorrect.", colorWrong)
	if g.Correct {
		verdict = m.stylize("Correct!", colorCorrect)
	}

	lines := []string{
		m.stylize(fmt.Sprintf("Question %d of %d", m.view.Index+1, m.view.Total), colorDim),
		"",
		m.wrap(q.Prompt),
		"",
		verdict,
		"Your answer: " + g.UserAnswer,
	}
	if !g.Correct {
		lines = append(lines, "Correct answer: "+g.CorrectAnswer)
	}
	if g.Explanation != "" {
		lines = append(lines, m.stylize(g.Explanation, colorDim))
	}
	lines = append(lines, "", m.stylize("enter: continue  q: quit", colorDim))
	return strings.Join(lines, "\n")
}

func (m Model) renderFinished() string {
	lines := []string{
		"Quiz complete!",
		fmt.Sprintf("You scored %d out of %d.", m.view.Score, m.view.Total),
	}

	if m.review != nil {
		lines = append(lines, "")
		for _, attempt := range m.review.Attempts {
			mark := m.stylize("x", colorWrong)
			if attempt.IsCorrect {
				mark = m.stylize("+", colorCorrect)
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, attempt.Prompt))
			lines = append(lines, m.stylize("    your answer: "+attempt.UserAnswer, colorDim))
			if !attempt.IsCorrect {
				lines = append(lines, m.stylize("    correct answer: "+attempt.CorrectAnswer, colorDim))
			}
		}
	}

	lines = append(lines, "", m.stylize("r: play again  s: another quiz  v: review  c: certificate  q: quit", colorDim))
	return strings.Join(lines, "\n")
}

func (m Model) stylize(text string, color lipgloss.Color) string {
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// wrap reflows long prompts to the terminal width.
func (m Model) wrap(text string) string {
	if m.width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(m.width).Render(text)
}
