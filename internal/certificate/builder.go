// Package certificate renders completion certificates for finished
// quiz runs.
package certificate

import "strings"

// Summary is the data drawn onto a certificate.
type Summary struct {
	StudentName string
	QuizTitle   string
	Score       int
	Total       int
}

// BuildSummary assembles a render-ready summary. Blank or
// whitespace-only names fall back to "Student", blank titles to
// "Quiz".
func BuildSummary(studentName, quizTitle string, score, total int) Summary {
	name := strings.TrimSpace(studentName)
	if name == "" {
		name = "Student"
	}
	title := strings.TrimSpace(quizTitle)
	if title == "" {
		title = "Quiz"
	}
	return Summary{
		StudentName: name,
		QuizTitle:   title,
		Score:       score,
		Total:       total,
	}
}
