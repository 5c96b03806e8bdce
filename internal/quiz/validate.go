package quiz

import "fmt"

// SchemaError reports the first constraint a quiz document violates.
// Label names the content source the way the loader labelled it; the
// message pinpoints the offending question (1-based) and field.
type SchemaError struct {
	Label string
	Msg   string
}

func (e *SchemaError) Error() string { return e.Msg }

func schemaErrorf(label, format string, args ...any) error {
	return &SchemaError{Label: label, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks raw decoded content against the quiz schema and
// returns the trusted form. It fails fast on the first violation in
// document order. An empty questions list is a valid document.
func Validate(label string, raw map[string]any) (*Document, error) {
	rawQuestions, ok := raw["questions"].([]any)
	if !ok {
		return nil, schemaErrorf(label, "%s: must contain a 'questions' list.", label)
	}

	doc := &Document{
		Meta:      parseMeta(raw["meta"]),
		Questions: make([]Question, 0, len(rawQuestions)),
	}

	for i, entry := range rawQuestions {
		n := i + 1
		qm, ok := entry.(map[string]any)
		if !ok {
			return nil, schemaErrorf(label, "%s Q%d: missing 'id'/'type'/'prompt'.", label, n)
		}

		idVal, hasID := qm["id"]
		typeVal, hasType := qm["type"]
		promptVal, hasPrompt := qm["prompt"]
		if !hasID || !hasType || !hasPrompt {
			return nil, schemaErrorf(label, "%s Q%d: missing 'id'/'type'/'prompt'.", label, n)
		}

		q := Question{
			ID:     scalarString(idVal),
			Prompt: scalarString(promptVal),
		}
		if s, ok := qm["explanation"].(string); ok {
			q.Explanation = s
		}

		t, ok := typeVal.(string)
		if !ok {
			return nil, schemaErrorf(label, "%s Q%d: unknown type '%v'.", label, n, typeVal)
		}
		q.Type = t

		switch t {
		case TypeSingleChoice:
			choices, choicesOK := stringSlice(qm["choices"])
			answer, answerOK := intValue(qm["answer"])
			if !choicesOK || !answerOK {
				return nil, schemaErrorf(label, "%s Q%d single_choice needs 'choices' + integer 'answer'.", label, n)
			}
			if answer < 0 || answer >= len(choices) {
				return nil, schemaErrorf(label, "%s Q%d: 'answer' index out of range.", label, n)
			}
			q.Choices = choices
			q.Answer = answer

		case TypeMultiSelect:
			choices, choicesOK := stringSlice(qm["choices"])
			rawAnswer, answerOK := qm["answer"].([]any)
			if !choicesOK || !answerOK {
				return nil, schemaErrorf(label, "%s Q%d multi_select needs 'choices' + list 'answer'.", label, n)
			}
			answerSet := make([]int, 0, len(rawAnswer))
			for _, rawIdx := range rawAnswer {
				idx, ok := intValue(rawIdx)
				if !ok || idx < 0 || idx >= len(choices) {
					return nil, schemaErrorf(label, "%s Q%d: multi-select index %v out of range.", label, n, rawIdx)
				}
				answerSet = append(answerSet, idx)
			}
			q.Choices = choices
			q.AnswerSet = answerSet

		case TypeTrueFalse:
			answer, ok := qm["answer"].(bool)
			if !ok {
				return nil, schemaErrorf(label, "%s Q%d true_false needs boolean 'answer'.", label, n)
			}
			q.AnswerBool = answer

		case TypeShortAnswer:
			accepted, ok := stringSlice(qm["answer_text"])
			if !ok || len(accepted) == 0 {
				return nil, schemaErrorf(label, "%s Q%d short_answer needs non-empty list 'answer_text'.", label, n)
			}
			q.AnswerText = accepted

		default:
			return nil, schemaErrorf(label, "%s Q%d: unknown type '%v'.", label, n, t)
		}

		doc.Questions = append(doc.Questions, q)
	}

	return doc, nil
}

func parseMeta(v any) Meta {
	m, ok := v.(map[string]any)
	if !ok {
		return Meta{}
	}
	meta := Meta{}
	if s, ok := m["title"].(string); ok {
		meta.Title = s
	}
	if s, ok := m["subject"].(string); ok {
		meta.Subject = s
	}
	return meta
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func stringSlice(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// intValue accepts the integer shapes both decoders produce: ints from
// YAML, float64 from JSON. Fractional values do not count as integers.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		i := int(n)
		if float64(i) == n {
			return i, true
		}
	}
	return 0, false
}
