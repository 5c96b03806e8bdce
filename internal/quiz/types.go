package quiz

// Question type constants.
const (
	TypeSingleChoice = "single_choice"
	TypeMultiSelect  = "multi_select"
	TypeTrueFalse    = "true_false"
	TypeShortAnswer  = "short_answer"
)

// Meta carries document-level descriptive fields. Unknown keys in the
// source document are ignored.
type Meta struct {
	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Question is the validated form of one quiz entry. Which answer field
// is meaningful depends on Type.
type Question struct {
	ID          string
	Type        string
	Prompt      string
	Explanation string

	// single_choice, multi_select
	Choices []string
	// single_choice
	Answer int
	// multi_select; keeps the order the document stored the indices in
	AnswerSet []int
	// true_false
	AnswerBool bool
	// short_answer
	AnswerText []string
}

// Document is a validated quiz. It is never mutated after Parse; the
// question order is the presentation order.
type Document struct {
	Meta      Meta
	Questions []Question
}
