package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"secplus_backend/internal/model"
	"secplus_backend/internal/quiz"
)

// decodeList reads a JSON-encoded list column. Anything that is not a JSON
// array decodes to nil.
func decodeList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "[") {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
			continue
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// decodeAnswers reads correct_answers. A JSON array is the list, a JSON
// string is a single answer and null is empty, which lets the grader fall
// back to correct_answer. Text that is not JSON is one answer as is.
func decodeAnswers(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return []string{trimmed}
	}
	switch v := decoded.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		return decodeList(trimmed)
	default:
		return []string{fmt.Sprint(v)}
	}
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}

// ToQuizQuestion converts a stored row into the engine's decoded form.
func ToQuizQuestion(row *model.Question) quiz.Question {
	return quiz.Question{
		ID:             row.ID,
		Text:           row.QuestionText,
		Type:           row.QuestionType,
		Category:       row.Category,
		Difficulty:     row.Difficulty,
		Explanation:    row.Explanation,
		Options:        decodeList(row.Options),
		CorrectAnswer:  row.CorrectAnswer,
		CorrectAnswers: decodeAnswers(row.CorrectAnswers),
		Tags:           decodeList(row.Tags),
		Reference:      row.Reference,
	}
}

// FromQuizQuestion encodes q for storage.
func FromQuizQuestion(q *quiz.Question) *model.Question {
	row := &model.Question{
		QuestionText:   q.Text,
		QuestionType:   q.Type,
		Category:       q.Category,
		Difficulty:     q.Difficulty,
		Explanation:    q.Explanation,
		Options:        encodeList(q.Options),
		CorrectAnswer:  q.CorrectAnswer,
		CorrectAnswers: encodeList(q.CorrectAnswers),
		Tags:           encodeList(q.Tags),
		Reference:      q.Reference,
	}
	row.ID = q.ID
	return row
}
