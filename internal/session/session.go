package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/quiz"
)

// Run phases.
const (
	PhaseSelecting  = "selecting"
	PhasePresenting = "presenting"
	PhaseGraded     = "graded"
	PhaseFinished   = "finished"
)

// Refused transitions.
var (
	ErrAlreadySelected  = errors.New("a quiz is already in progress")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrAdvanceBlocked   = errors.New("current question has not been graded")
	ErrNotFinished      = errors.New("quiz run is not finished")
)

// Source yields validated quiz documents. content.Source satisfies it.
type Source interface {
	Load(ctx context.Context, id string) (*quiz.Document, error)
}

// Attempt records one graded response. Created at most once per
// question per run.
type Attempt struct {
	QuestionID    string `json:"question_id"`
	Prompt        string `json:"prompt"`
	Type          string `json:"type"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Result reports what a Submit call did.
type Result struct {
	// Graded is false when the submission was absent or empty; nothing
	// was recorded and the learner must resubmit.
	Graded bool
	// Correct is meaningful only when Graded.
	Correct bool
	// AlreadyGraded marks a repeat submission for a question that has
	// its attempt recorded; the stored outcome is returned unchanged.
	AlreadyGraded bool
}

// Session walks one learner through one quiz run. All methods are safe
// for concurrent use; each user action runs to completion under the
// lock before the next is accepted.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	source Source

	mu          sync.Mutex
	phase       string
	studentName string
	quizID      string
	doc         *quiz.Document
	index       int
	score       int
	attempts    []Attempt
	graded      bool
	// capture holds the current question's submitted values so the
	// presentation layer can re-render the learner's picks. Cleared on
	// advance and restart so a revisit starts blank.
	capture   quiz.Submission
	outcome   quiz.Outcome
	touchedAt time.Time
}

func newSession(source Source, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		source:    source,
		phase:     PhaseSelecting,
		touchedAt: now,
	}
}

// Select loads quiz id and starts a run. Only valid while selecting; a
// failed load surfaces the error and keeps the session selecting. A
// non-blank studentName replaces the stored one. Documents with no
// questions finish immediately.
func (s *Session) Select(ctx context.Context, quizID, studentName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.phase != PhaseSelecting {
		return ErrAlreadySelected
	}

	doc, err := s.source.Load(ctx, quizID)
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(studentName); name != "" {
		s.studentName = name
	}
	s.quizID = quizID
	s.doc = doc
	s.resetRun()
	return nil
}

// Submit grades the current question. An empty submission leaves the
// question ungraded. The first graded submission records the attempt
// and scores it; later submissions return the recorded outcome without
// touching score or attempts.
func (s *Session) Submit(sub quiz.Submission) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.phase {
	case PhasePresenting:
	case PhaseGraded:
		return Result{Graded: true, Correct: s.outcome.Correct, AlreadyGraded: true}, nil
	default:
		return Result{}, ErrNoActiveQuestion
	}

	q := s.doc.Questions[s.index]
	s.capture = sub
	outcome := quiz.Grade(q, sub)
	if !outcome.Graded {
		return Result{}, nil
	}

	s.outcome = outcome
	s.graded = true
	s.phase = PhaseGraded
	if outcome.Correct {
		s.score++
	}
	s.attempts = append(s.attempts, Attempt{
		QuestionID:    q.ID,
		Prompt:        q.Prompt,
		Type:          q.Type,
		UserAnswer:    quiz.SubmittedAnswerText(q, sub),
		CorrectAnswer: quiz.CorrectAnswerText(q),
		IsCorrect:     outcome.Correct,
		Explanation:   q.Explanation,
	})
	return Result{Graded: true, Correct: outcome.Correct}, nil
}

// Advance moves past a graded question, finishing the run after the
// last one. Refused while the current question is ungraded.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.phase {
	case PhaseGraded:
	case PhasePresenting:
		return ErrAdvanceBlocked
	default:
		return ErrNoActiveQuestion
	}

	s.index++
	s.graded = false
	s.capture = quiz.Submission{}
	s.outcome = quiz.Outcome{}
	if s.index >= len(s.doc.Questions) {
		s.phase = PhaseFinished
	} else {
		s.phase = PhasePresenting
	}
	return nil
}

// Restart replays the loaded quiz from the first question, keeping the
// document and student name. Only valid once finished.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.phase != PhaseFinished {
		return ErrNotFinished
	}
	s.resetRun()
	return nil
}

// ReturnToSelection drops the loaded quiz and goes back to the
// selection screen. Only valid once finished. The student name is kept
// for the next run.
func (s *Session) ReturnToSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.phase != PhaseFinished {
		return ErrNotFinished
	}
	s.quizID = ""
	s.doc = nil
	s.resetRun()
	return nil
}

// resetRun zeroes per-run state. Callers hold s.mu.
func (s *Session) resetRun() {
	s.index = 0
	s.score = 0
	s.attempts = nil
	s.graded = false
	s.capture = quiz.Submission{}
	s.outcome = quiz.Outcome{}
	if s.doc != nil && len(s.doc.Questions) > 0 {
		s.phase = PhasePresenting
	} else if s.doc != nil {
		s.phase = PhaseFinished
	} else {
		s.phase = PhaseSelecting
	}
}

func (s *Session) touch() {
	s.touchedAt = time.Now()
}

// Phase returns the current run phase.
func (s *Session) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Score returns the number of correctly answered questions.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Total returns the question count of the loaded document, 0 while
// selecting.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

func (s *Session) total() int {
	if s.doc == nil {
		return 0
	}
	return len(s.doc.Questions)
}

// CurrentIndex returns the 0-based index of the question being
// presented. It equals Total once finished.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// CurrentQuestion returns the question being presented, nil while
// selecting or finished.
func (s *Session) CurrentQuestion() *quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePresenting && s.phase != PhaseGraded {
		return nil
	}
	q := s.doc.Questions[s.index]
	return &q
}

// StudentName returns the learner's name, possibly blank.
func (s *Session) StudentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentName
}

// QuizTitle returns the loaded document's title, blank while selecting.
func (s *Session) QuizTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.Meta.Title
}

// Attempts returns a copy of the recorded attempts.
func (s *Session) Attempts() []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

// Progress reports how far the run has advanced, in [0, 1]. Zero when
// no questions are loaded.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.total()
	if total == 0 {
		return 0
	}
	return float64(s.index) / float64(total)
}

// LastTouched returns when the session last served a user action.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}
