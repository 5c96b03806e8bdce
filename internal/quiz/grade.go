package quiz

import (
	"slices"
	"strings"
)

// Submission carries one response to a question. Value holds the
// chosen option, "True"/"False", or free text depending on the
// question type; Values holds the chosen options for multi_select.
type Submission struct {
	Value  string
	Values []string
}

// Outcome is the result of one grading pass. Graded is false when the
// submission was absent or empty: nothing is recorded and the caller
// must re-prompt.
type Outcome struct {
	Graded  bool
	Correct bool
}

// Normalize lowercases s and collapses whitespace runs to single
// spaces so short answers compare loosely.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Grade compares a submission against the question's answer key. Pure
// and idempotent; enforcing at-most-once recording is the session's
// job, not the grader's.
func Grade(q Question, sub Submission) Outcome {
	switch q.Type {
	case TypeSingleChoice:
		if sub.Value == "" {
			return Outcome{}
		}
		return Outcome{Graded: true, Correct: slices.Index(q.Choices, sub.Value) == q.Answer}

	case TypeMultiSelect:
		if len(sub.Values) == 0 {
			return Outcome{}
		}
		chosen := make(map[int]struct{}, len(sub.Values))
		for _, v := range sub.Values {
			chosen[slices.Index(q.Choices, v)] = struct{}{}
		}
		want := make(map[int]struct{}, len(q.AnswerSet))
		for _, idx := range q.AnswerSet {
			want[idx] = struct{}{}
		}
		return Outcome{Graded: true, Correct: indexSetsEqual(chosen, want)}

	case TypeTrueFalse:
		if sub.Value == "" {
			return Outcome{}
		}
		return Outcome{Graded: true, Correct: (sub.Value == "True") == q.AnswerBool}

	case TypeShortAnswer:
		if strings.TrimSpace(sub.Value) == "" {
			return Outcome{}
		}
		got := Normalize(sub.Value)
		for _, accepted := range q.AnswerText {
			if got == Normalize(accepted) {
				return Outcome{Graded: true, Correct: true}
			}
		}
		return Outcome{Graded: true}
	}
	return Outcome{}
}

// CorrectAnswerText renders the answer key for display. multi_select
// joins choices in the order the document stored the indices in.
func CorrectAnswerText(q Question) string {
	switch q.Type {
	case TypeSingleChoice:
		return q.Choices[q.Answer]
	case TypeMultiSelect:
		parts := make([]string, len(q.AnswerSet))
		for i, idx := range q.AnswerSet {
			parts[i] = q.Choices[idx]
		}
		return strings.Join(parts, ", ")
	case TypeTrueFalse:
		if q.AnswerBool {
			return "True"
		}
		return "False"
	case TypeShortAnswer:
		return strings.Join(q.AnswerText, ", ")
	}
	return ""
}

// SubmittedAnswerText renders a submission the same way the answer key
// is rendered. Absent submissions render empty.
func SubmittedAnswerText(q Question, sub Submission) string {
	if q.Type == TypeMultiSelect {
		return strings.Join(sub.Values, ", ")
	}
	return sub.Value
}

func indexSetsEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if _, ok := b[idx]; !ok {
			return false
		}
	}
	return true
}
