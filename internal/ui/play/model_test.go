package play

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub/internal/content"
	"quizhub/internal/quiz"
	"quizhub/internal/session"
)

func testModel() Model {
	return NewModel(NewClient("http://127.0.0.1:0"), Options{NoColor: true})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func pressKey(t *testing.T, m Model, name string) (Model, tea.Cmd) {
	t.Helper()
	var key tea.KeyMsg
	switch name {
	case "enter":
		key = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		key = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		key = tea.KeyMsg{Type: tea.KeySpace}
	default:
		key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
	return update(t, m, key)
}

func presentingView(questionType string, choices []string) session.View {
	return session.View{
		SessionID: "s1",
		Phase:     session.PhasePresenting,
		Total:     2,
		Question: &session.QuestionView{
			ID:      "q1",
			Type:    questionType,
			Prompt:  "Pick something.",
			Choices: choices,
		},
	}
}

func TestScreenFollowsPhase(t *testing.T) {
	m := testModel()
	assert.Equal(t, screenName, m.screen())

	m.view = session.View{SessionID: "s1", Phase: session.PhaseSelecting}
	assert.Equal(t, screenCatalog, m.screen())

	m.view.Phase = session.PhasePresenting
	assert.Equal(t, screenQuestion, m.screen())

	m.view.Phase = session.PhaseGraded
	assert.Equal(t, screenGraded, m.screen())

	m.view.Phase = session.PhaseFinished
	assert.Equal(t, screenFinished, m.screen())
}

func TestSelectingSnapshotLoadsCatalog(t *testing.T) {
	m := testModel()
	m, cmd := update(t, m, viewMsg{view: session.View{SessionID: "s1", Phase: session.PhaseSelecting}})
	assert.True(t, m.busy)
	require.NotNil(t, cmd, "empty catalog must trigger a fetch")

	m, _ = update(t, m, quizzesMsg{entries: []content.Entry{{ID: "go", Title: "Go Basics"}}})
	assert.False(t, m.busy)
	require.Len(t, m.quizzes, 1)

	// A later selection snapshot reuses the loaded catalog.
	m, cmd = update(t, m, viewMsg{view: session.View{SessionID: "s1", Phase: session.PhaseSelecting}})
	assert.False(t, m.busy)
	assert.Nil(t, cmd)
}

func TestCatalogNavigation(t *testing.T) {
	m := testModel()
	m.view = session.View{SessionID: "s1", Phase: session.PhaseSelecting}
	m.quizzes = []content.Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "j")
	assert.Equal(t, 2, m.cursor, "cursor stops at the last entry")
	m, _ = pressKey(t, m, "k")
	assert.Equal(t, 1, m.cursor)

	m, cmd := pressKey(t, m, "enter")
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
}

func TestSingleChoiceSubmit(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, viewMsg{view: presentingView(quiz.TypeSingleChoice, []string{"A", "B"})})

	m, _ = pressKey(t, m, "j")
	assert.Equal(t, 1, m.cursor)

	m, cmd := pressKey(t, m, "enter")
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
}

func TestMultiSelectToggleKeepsDisplayOrder(t *testing.T) {
	m := testModel()
	choices := []string{"Red", "Green", "Blue"}
	m, _ = update(t, m, viewMsg{view: presentingView(quiz.TypeMultiSelect, choices)})

	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "j")
	m, _ = pressKey(t, m, "space")
	m, _ = pressKey(t, m, "k")
	m, _ = pressKey(t, m, "k")
	m, _ = pressKey(t, m, "space")

	assert.Equal(t, []string{"Red", "Blue"}, m.pickedValues(choices))

	// Toggling again clears a pick.
	m, _ = pressKey(t, m, "space")
	assert.Equal(t, []string{"Blue"}, m.pickedValues(choices))
}

func TestTrueFalseOptions(t *testing.T) {
	q := &session.QuestionView{Type: quiz.TypeTrueFalse}
	assert.Equal(t, []string{"True", "False"}, questionOptions(q))
	assert.Nil(t, questionOptions(nil))
}

func TestUngradedAnswerShowsHint(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, viewMsg{view: presentingView(quiz.TypeShortAnswer, nil)})

	m, _ = update(t, m, answerMsg{result: AnswerResult{}})
	assert.Equal(t, "Type an answer first.", m.status)
	assert.Equal(t, screenQuestion, m.screen())

	m.view.Question.Type = quiz.TypeSingleChoice
	m, _ = update(t, m, answerMsg{result: AnswerResult{}})
	assert.Equal(t, "Pick an answer first.", m.status)
}

func TestRestoreCapture(t *testing.T) {
	m := testModel()
	v := presentingView(quiz.TypeSingleChoice, []string{"A", "B"})
	v.Capture = &session.CaptureView{Value: "B"}
	m, _ = update(t, m, viewMsg{view: v})
	assert.Equal(t, 1, m.cursor)

	v = presentingView(quiz.TypeMultiSelect, []string{"Red", "Green", "Blue"})
	v.Capture = &session.CaptureView{Values: []string{"Red", "Blue"}}
	m, _ = update(t, m, viewMsg{view: v})
	assert.Equal(t, []string{"Red", "Blue"}, m.pickedValues(v.Question.Choices))

	v = presentingView(quiz.TypeShortAnswer, nil)
	v.Capture = &session.CaptureView{Value: "goroutine"}
	m, _ = update(t, m, viewMsg{view: v})
	assert.Equal(t, "goroutine", m.answerInput.Value())
}

func TestGradedScreenAdvances(t *testing.T) {
	m := testModel()
	v := presentingView(quiz.TypeSingleChoice, []string{"A", "B"})
	v.Phase = session.PhaseGraded
	v.Graded = &session.GradedView{Correct: true, UserAnswer: "B", CorrectAnswer: "B"}
	m, _ = update(t, m, viewMsg{view: v})

	m, cmd := pressKey(t, m, "enter")
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
}

func TestFinishedReviewToggle(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, viewMsg{view: session.View{SessionID: "s1", Phase: session.PhaseFinished, Score: 1, Total: 2}})

	m, cmd := pressKey(t, m, "v")
	assert.True(t, m.busy)
	require.NotNil(t, cmd)

	m, _ = update(t, m, reviewMsg{review: Review{Score: 1, Total: 2, Attempts: []session.Attempt{{Prompt: "Pick.", UserAnswer: "A"}}}})
	require.NotNil(t, m.review)

	m, _ = pressKey(t, m, "v")
	assert.Nil(t, m.review)
}

func TestBusyIgnoresKeys(t *testing.T) {
	m := testModel()
	m.view = session.View{SessionID: "s1", Phase: session.PhaseSelecting}
	m.quizzes = []content.Entry{{ID: "a"}, {ID: "b"}}
	m.busy = true

	m, cmd := pressKey(t, m, "j")
	assert.Equal(t, 0, m.cursor)
	assert.Nil(t, cmd)
}

func TestErrMsgSetsStatus(t *testing.T) {
	m := testModel()
	m.busy = true
	m, _ = update(t, m, errMsg{err: &APIError{Status: 409, Code: "advance_blocked", Message: "grade the current question first"}})
	assert.False(t, m.busy)
	assert.Equal(t, "grade the current question first", m.status)
}

func TestViewRendersEachScreen(t *testing.T) {
	m := testModel()
	assert.Contains(t, m.View(), "What should the certificate call you")

	m.view = session.View{SessionID: "s1", Phase: session.PhaseSelecting, StudentName: "Ada"}
	m.quizzes = []content.Entry{{ID: "go", Title: "Go Basics"}}
	out := m.View()
	assert.Contains(t, out, "Quiz Hub | Ada")
	assert.Contains(t, out, "> Go Basics")

	m.view = presentingView(quiz.TypeMultiSelect, []string{"Red", "Green"})
	m.picks = map[int]bool{1: true}
	out = m.View()
	assert.Contains(t, out, "Pick something.")
	assert.Contains(t, out, "[ ] Red")
	assert.Contains(t, out, "[x] Green")
	assert.Contains(t, out, "Question 1 of 2")

	m.view.Phase = session.PhaseGraded
	m.view.Graded = &session.GradedView{Correct: false, UserAnswer: "Red", CorrectAnswer: "Green", Explanation: "Green it is."}
	out = m.View()
	assert.Contains(t, out, "Incorrect.")
	assert.Contains(t, out, "Correct answer: Green")
	assert.Contains(t, out, "Green it is.")

	m.view = session.View{SessionID: "s1", Phase: session.PhaseFinished, Score: 2, Total: 2, QuizTitle: "Go Basics"}
	out = m.View()
	assert.Contains(t, out, "Quiz complete!")
	assert.Contains(t, out, "You scored 2 out of 2.")

	m.status = "certificate saved"
	assert.Contains(t, m.View(), "certificate saved")
}
