package quiz

import (
	"strconv"
	"strings"
)

const defaultExplanation = "No explanation available."

// CheckAnswer grades a raw answer against q. It never fails: answers that
// cannot be interpreted for the question's format are simply incorrect.
func CheckAnswer(q *Question, userAnswer string) (bool, string) {
	explanation := q.Explanation
	if explanation == "" {
		explanation = defaultExplanation
	}

	switch q.Kind() {
	case KindMultipleChoice, KindConceptMultipleChoice, KindScenarioMultipleChoice:
		return checkChoice(q, userAnswer), explanation
	case KindTrueFalse:
		return checkTrueFalse(q, userAnswer), explanation
	case KindFillInBlank:
		return checkFillInBlank(q, userAnswer), explanation
	case KindUnknown:
		return checkByIndex(q, userAnswer), explanation
	}
	return false, explanation
}

// CorrectAnswerDisplay renders the canonical answer shown after submission.
// The result depends only on q.
func CorrectAnswerDisplay(q *Question) string {
	switch q.Kind() {
	case KindMultipleChoice, KindConceptMultipleChoice, KindScenarioMultipleChoice:
		if !isDigits(q.CorrectAnswer) {
			return q.CorrectAnswer
		}
		if idx, err := strconv.Atoi(q.CorrectAnswer); err == nil && idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
		return "Option " + q.CorrectAnswer
	case KindTrueFalse:
		return trueFalseAnswer(q)
	case KindFillInBlank:
		accepted := acceptedAnswers(q)
		if len(accepted) > 0 && accepted[0] != "" {
			return accepted[0]
		}
		return q.CorrectAnswer
	case KindUnknown:
		return q.CorrectAnswer
	}
	return q.CorrectAnswer
}

func checkChoice(q *Question, userAnswer string) bool {
	userIdx, err := strconv.Atoi(strings.TrimSpace(userAnswer))
	if err != nil {
		return false
	}

	if isDigits(q.CorrectAnswer) {
		correctIdx, err := strconv.Atoi(q.CorrectAnswer)
		if err != nil {
			return false
		}
		return userIdx == correctIdx
	}

	// correct_answer holds the option text itself
	if userIdx < 0 || userIdx >= len(q.Options) {
		return false
	}
	return normalizeText(q.Options[userIdx]) == normalizeText(q.CorrectAnswer)
}

func checkTrueFalse(q *Question, userAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), trueFalseAnswer(q))
}

func checkFillInBlank(q *Question, userAnswer string) bool {
	given := normalizeText(userAnswer)
	for _, ans := range acceptedAnswers(q) {
		if ans == "" {
			continue
		}
		if given == normalizeText(ans) {
			return true
		}
	}
	return false
}

// checkByIndex handles unrecognised question types the way choice questions
// with a numeric key are handled, defaulting the key to "0".
func checkByIndex(q *Question, userAnswer string) bool {
	userIdx, err := strconv.Atoi(strings.TrimSpace(userAnswer))
	if err != nil {
		return false
	}
	correct := strings.TrimSpace(q.CorrectAnswer)
	if correct == "" {
		correct = "0"
	}
	return strconv.Itoa(userIdx) == correct
}

func trueFalseAnswer(q *Question) string {
	ans := strings.TrimSpace(q.CorrectAnswer)
	if ans == "" {
		return "True"
	}
	return ans
}

func acceptedAnswers(q *Question) []string {
	if len(q.CorrectAnswers) > 0 {
		return q.CorrectAnswers
	}
	return []string{q.CorrectAnswer}
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
