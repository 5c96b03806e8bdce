package session

// QuestionView is the answer-key-free projection of the question being
// presented.
type QuestionView struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

// CaptureView echoes the learner's submitted picks so clients can
// restore them after a reload.
type CaptureView struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// GradedView reports the recorded outcome for the current question.
// Explanations are revealed here and nowhere earlier.
type GradedView struct {
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// View is the transport snapshot served over REST and pushed to
// WebSocket observers. It never exposes answer keys.
type View struct {
	SessionID   string        `json:"session_id"`
	Phase       string        `json:"phase"`
	StudentName string        `json:"student_name,omitempty"`
	QuizID      string        `json:"quiz_id,omitempty"`
	QuizTitle   string        `json:"quiz_title,omitempty"`
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	Score       int           `json:"score"`
	Answered    int           `json:"answered"`
	Progress    float64       `json:"progress"`
	Question    *QuestionView `json:"question,omitempty"`
	Capture     *CaptureView  `json:"capture,omitempty"`
	Graded      *GradedView   `json:"graded,omitempty"`
}

// View snapshots the session for transport.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:   s.ID.String(),
		Phase:       s.phase,
		StudentName: s.studentName,
		QuizID:      s.quizID,
		Index:       s.index,
		Total:       s.total(),
		Score:       s.score,
		Answered:    len(s.attempts),
	}
	if s.doc != nil {
		v.QuizTitle = s.doc.Meta.Title
	}
	if v.Total > 0 {
		v.Progress = float64(s.index) / float64(v.Total)
	}

	if s.phase == PhasePresenting || s.phase == PhaseGraded {
		q := s.doc.Questions[s.index]
		v.Question = &QuestionView{
			ID:      q.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Choices: q.Choices,
		}
		if s.capture.Value != "" || len(s.capture.Values) > 0 {
			v.Capture = &CaptureView{Value: s.capture.Value, Values: s.capture.Values}
		}
	}
	if s.phase == PhaseGraded && len(s.attempts) > 0 {
		last := s.attempts[len(s.attempts)-1]
		v.Graded = &GradedView{
			Correct:       last.IsCorrect,
			UserAnswer:    last.UserAnswer,
			CorrectAnswer: last.CorrectAnswer,
			Explanation:   last.Explanation,
		}
	}
	return v
}
