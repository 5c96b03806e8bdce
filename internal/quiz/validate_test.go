package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "meta": {"title": "General Knowledge", "subject": "Misc", "author": "ignored"},
  "questions": [
    {"id": "q1", "type": "single_choice", "prompt": "Pick B", "choices": ["A", "B", "C"], "answer": 1},
    {"id": "q2", "type": "multi_select", "prompt": "Pick Blue and Red", "choices": ["Red", "Green", "Blue"], "answer": [2, 0]},
    {"id": "q3", "type": "true_false", "prompt": "Sky is blue", "answer": true, "explanation": "On a clear day."},
    {"id": "q4", "type": "short_answer", "prompt": "Capital of France", "answer_text": ["Paris", "City of Light"]}
  ]
}`

func TestParseValidDocument(t *testing.T) {
	doc, err := Parse("sample.json", []byte(sampleJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "General Knowledge", doc.Meta.Title)
	assert.Equal(t, "Misc", doc.Meta.Subject)
	require.Len(t, doc.Questions, 4)

	q1 := doc.Questions[0]
	assert.Equal(t, TypeSingleChoice, q1.Type)
	assert.Equal(t, []string{"A", "B", "C"}, q1.Choices)
	assert.Equal(t, 1, q1.Answer)

	q2 := doc.Questions[1]
	assert.Equal(t, TypeMultiSelect, q2.Type)
	assert.Equal(t, []int{2, 0}, q2.AnswerSet, "stored answer order is preserved")

	q3 := doc.Questions[2]
	assert.Equal(t, TypeTrueFalse, q3.Type)
	assert.True(t, q3.AnswerBool)
	assert.Equal(t, "On a clear day.", q3.Explanation)

	q4 := doc.Questions[3]
	assert.Equal(t, TypeShortAnswer, q4.Type)
	assert.Equal(t, []string{"Paris", "City of Light"}, q4.AnswerText)
}

func TestParseYAMLDocument(t *testing.T) {
	data := []byte(`
meta:
  title: Geography
questions:
  - id: q1
    type: single_choice
    prompt: Pick A
    choices: [A, B]
    answer: 0
  - id: q2
    type: true_false
    prompt: Water is wet
    answer: false
`)
	doc, err := Parse("geo.yaml", data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Geography", doc.Meta.Title)
	require.Len(t, doc.Questions, 2)
	assert.Equal(t, 0, doc.Questions[0].Answer)
	assert.False(t, doc.Questions[1].AnswerBool)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing questions",
			body: `{"meta": {"title": "x"}}`,
			want: "bad.json: must contain a 'questions' list.",
		},
		{
			name: "questions not a list",
			body: `{"questions": {"q": 1}}`,
			want: "bad.json: must contain a 'questions' list.",
		},
		{
			name: "missing id",
			body: `{"questions": [{"type": "true_false", "prompt": "p", "answer": true}]}`,
			want: "bad.json Q1: missing 'id'/'type'/'prompt'.",
		},
		{
			name: "missing type",
			body: `{"questions": [{"id": "a", "prompt": "p"}]}`,
			want: "bad.json Q1: missing 'id'/'type'/'prompt'.",
		},
		{
			name: "missing prompt on second question",
			body: `{"questions": [
				{"id": "a", "type": "true_false", "prompt": "p", "answer": true},
				{"id": "b", "type": "true_false", "answer": false}
			]}`,
			want: "bad.json Q2: missing 'id'/'type'/'prompt'.",
		},
		{
			name: "single_choice without choices",
			body: `{"questions": [{"id": "a", "type": "single_choice", "prompt": "p", "answer": 0}]}`,
			want: "bad.json Q1 single_choice needs 'choices' + integer 'answer'.",
		},
		{
			name: "single_choice fractional answer",
			body: `{"questions": [{"id": "a", "type": "single_choice", "prompt": "p", "choices": ["A"], "answer": 0.5}]}`,
			want: "bad.json Q1 single_choice needs 'choices' + integer 'answer'.",
		},
		{
			name: "single_choice answer out of range",
			body: `{"questions": [{"id": "a", "type": "single_choice", "prompt": "p", "choices": ["A", "B"], "answer": 2}]}`,
			want: "bad.json Q1: 'answer' index out of range.",
		},
		{
			name: "single_choice negative answer",
			body: `{"questions": [{"id": "a", "type": "single_choice", "prompt": "p", "choices": ["A", "B"], "answer": -1}]}`,
			want: "bad.json Q1: 'answer' index out of range.",
		},
		{
			name: "multi_select answer not a list",
			body: `{"questions": [{"id": "a", "type": "multi_select", "prompt": "p", "choices": ["A"], "answer": 0}]}`,
			want: "bad.json Q1 multi_select needs 'choices' + list 'answer'.",
		},
		{
			name: "multi_select negative index",
			body: `{"questions": [{"id": "a", "type": "multi_select", "prompt": "p", "choices": ["A", "B"], "answer": [0, -1]}]}`,
			want: "bad.json Q1: multi-select index -1 out of range.",
		},
		{
			name: "multi_select index past end",
			body: `{"questions": [{"id": "a", "type": "multi_select", "prompt": "p", "choices": ["A", "B"], "answer": [2]}]}`,
			want: "bad.json Q1: multi-select index 2 out of range.",
		},
		{
			name: "true_false non boolean answer",
			body: `{"questions": [{"id": "a", "type": "true_false", "prompt": "p", "answer": "true"}]}`,
			want: "bad.json Q1 true_false needs boolean 'answer'.",
		},
		{
			name: "short_answer empty list",
			body: `{"questions": [{"id": "a", "type": "short_answer", "prompt": "p", "answer_text": []}]}`,
			want: "bad.json Q1 short_answer needs non-empty list 'answer_text'.",
		},
		{
			name: "short_answer missing answer_text",
			body: `{"questions": [{"id": "a", "type": "short_answer", "prompt": "p"}]}`,
			want: "bad.json Q1 short_answer needs non-empty list 'answer_text'.",
		},
		{
			name: "unknown type",
			body: `{"questions": [{"id": "a", "type": "essay", "prompt": "p"}]}`,
			want: "bad.json Q1: unknown type 'essay'.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad.json", []byte(tc.body), FormatJSON)
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.want, schemaErr.Error())
			assert.Equal(t, "bad.json", schemaErr.Label)
		})
	}
}

func TestValidateEmptyQuestionsIsValid(t *testing.T) {
	doc, err := Parse("empty.json", []byte(`{"questions": []}`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, doc.Questions)
}

func TestParseMalformedPayloadIsNotASchemaError(t *testing.T) {
	_, err := Parse("broken.json", []byte(`{"questions": [`), FormatJSON)
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr), "decode failures are IO-level, not schema errors")
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("quiz.json"))
	assert.Equal(t, FormatYAML, FormatForPath("quiz.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("quiz.yml"))
	assert.Equal(t, FormatJSON, FormatForPath("quiz"))
}
