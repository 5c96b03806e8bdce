// Package play renders the interactive terminal player for the quiz
// server. All quiz state lives server-side; the model mirrors the
// latest session snapshot and turns key presses into REST calls.
package play

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quizhub/internal/content"
	"quizhub/internal/quiz"
	"quizhub/internal/session"
)

// screen identifies what the player is looking at.
type screen int

const (
	screenName screen = iota
	screenCatalog
	screenQuestion
	screenGraded
	screenFinished
)

// Options configures the player model.
type Options struct {
	// StudentName skips the name prompt when set.
	StudentName string
	NoColor     bool
}

// Model is the Bubble Tea model for the quiz player.
type Model struct {
	client  *Client
	noColor bool

	view    session.View
	quizzes []content.Entry
	review  *Review

	nameInput   textinput.Model
	answerInput textinput.Model
	cursor      int
	picks       map[int]bool

	startName string
	status    string
	busy      bool
	width     int
}

// NewModel constructs a player for the given API client.
func NewModel(client *Client, opts Options) Model {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 60
	name.Focus()

	answer := textinput.New()
	answer.Placeholder = "Type your answer"
	answer.CharLimit = 200

	return Model{
		client:      client,
		noColor:     opts.NoColor,
		nameInput:   name,
		answerInput: answer,
		picks:       map[int]bool{},
		startName:   strings.TrimSpace(opts.StudentName),
		busy:        strings.TrimSpace(opts.StudentName) != "",
	}
}

// Init opens the session directly when a name was given up front,
// otherwise it waits on the name prompt.
func (m Model) Init() tea.Cmd {
	if m.startName != "" {
		return m.createSessionCmd(m.startName)
	}
	return textinput.Blink
}

// SessionID reports the live session id, if one was created.
func (m Model) SessionID() string {
	return m.view.SessionID
}

func (m Model) screen() screen {
	if m.view.SessionID == "" {
		return screenName
	}
	switch m.view.Phase {
	case session.PhasePresenting:
		return screenQuestion
	case session.PhaseGraded:
		return screenGraded
	case session.PhaseFinished:
		return screenFinished
	default:
		return screenCatalog
	}
}

// Update consumes key presses and API responses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case quizzesMsg:
		m.busy = false
		m.quizzes = typed.entries
		if m.cursor >= len(m.quizzes) {
			m.cursor = 0
		}
		return m, nil
	case viewMsg:
		return m.applyView(typed.view)
	case answerMsg:
		m.busy = false
		if !typed.result.Graded && !typed.result.AlreadyGraded {
			m.status = answerRequiredHint(m.view.Question)
			return m, nil
		}
		return m.applyView(typed.result.View)
	case reviewMsg:
		m.busy = false
		rev := typed.review
		m.review = &rev
		return m, nil
	case certificateMsg:
		m.busy = false
		m.status = "Certificate saved to " + typed.path
		return m, nil
	case errMsg:
		m.busy = false
		m.status = typed.err.Error()
		return m, nil
	}
	return m, nil
}

// applyView swaps in a fresh snapshot and resets per-question input.
func (m Model) applyView(v session.View) (Model, tea.Cmd) {
	m.view = v
	m.busy = false
	m.status = ""

	switch v.Phase {
	case session.PhaseSelecting:
		m.review = nil
		m.cursor = 0
		if len(m.quizzes) == 0 {
			m.busy = true
			return m, m.loadQuizzesCmd()
		}
	case session.PhasePresenting:
		m.cursor = 0
		m.picks = map[int]bool{}
		m.answerInput.Reset()
		m.restoreCapture(v)
		if v.Question != nil && v.Question.Type == quiz.TypeShortAnswer {
			m.answerInput.Focus()
		}
	case session.PhaseFinished:
		m.review = nil
	}
	return m, nil
}

// restoreCapture re-applies a previously captured submission so an
// ungraded answer survives snapshot refreshes.
func (m *Model) restoreCapture(v session.View) {
	if v.Capture == nil || v.Question == nil {
		return
	}
	switch v.Question.Type {
	case quiz.TypeShortAnswer:
		m.answerInput.SetValue(v.Capture.Value)
	case quiz.TypeSingleChoice:
		if i := slices.Index(v.Question.Choices, v.Capture.Value); i >= 0 {
			m.cursor = i
		}
	case quiz.TypeTrueFalse:
		if v.Capture.Value == "False" {
			m.cursor = 1
		}
	case quiz.TypeMultiSelect:
		for _, val := range v.Capture.Values {
			if i := slices.Index(v.Question.Choices, val); i >= 0 {
				m.picks[i] = true
			}
		}
	}
}

// questionOptions lists the selectable options for a question.
// True/false questions present a fixed pair.
func questionOptions(q *session.QuestionView) []string {
	if q == nil {
		return nil
	}
	if q.Type == quiz.TypeTrueFalse {
		return []string{"True", "False"}
	}
	return q.Choices
}

func answerRequiredHint(q *session.QuestionView) string {
	if q != nil && q.Type == quiz.TypeShortAnswer {
		return "Type an answer first."
	}
	return "Pick an answer first."
}

type quizzesMsg struct{ entries []content.Entry }

type viewMsg struct{ view session.View }

type answerMsg struct{ result AnswerResult }

type reviewMsg struct{ review Review }

type certificateMsg struct{ path string }

type errMsg struct{ err error }

func (m Model) createSessionCmd(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		v, err := client.CreateSession(context.Background(), name)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{v}
	}
}

func (m Model) loadQuizzesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.ListQuizzes(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return quizzesMsg{entries}
	}
}

func (m Model) selectCmd(quizID string) tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		v, err := client.Select(context.Background(), id, quizID)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{v}
	}
}

func (m Model) answerCmd(value string, values []string) tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		res, err := client.Answer(context.Background(), id, value, values)
		if err != nil {
			return errMsg{err}
		}
		return answerMsg{res}
	}
}

func (m Model) advanceCmd() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		v, err := client.Advance(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{v}
	}
}

func (m Model) restartCmd() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		v, err := client.Restart(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{v}
	}
}

func (m Model) returnCmd() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		v, err := client.Return(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{v}
	}
}

func (m Model) reviewCmd() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		rev, err := client.ReviewRun(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return reviewMsg{rev}
	}
}

func (m Model) certificateCmd() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		data, filename, err := client.Certificate(context.Background(), id, "")
		if err != nil {
			return errMsg{err}
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return errMsg{err}
		}
		return certificateMsg{path: filename}
	}
}
