package quiz

import "strings"

// Kind is the closed set of question formats the grader understands.
type Kind int

const (
	KindUnknown Kind = iota
	KindMultipleChoice
	KindConceptMultipleChoice
	KindScenarioMultipleChoice
	KindTrueFalse
	KindFillInBlank
)

// ParseKind maps a stored question_type tag onto a Kind. Both spellings of
// the fill-in-the-blank tag are accepted; anything else is KindUnknown.
func ParseKind(tag string) Kind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "multiple_choice":
		return KindMultipleChoice
	case "concept_multiple_choice":
		return KindConceptMultipleChoice
	case "scenario_multiple_choice":
		return KindScenarioMultipleChoice
	case "true_false":
		return KindTrueFalse
	case "fill_in_blank", "fill_in_the_blank":
		return KindFillInBlank
	default:
		return KindUnknown
	}
}

// IsChoice reports whether answers are submitted as an index into Options.
func (k Kind) IsChoice() bool {
	switch k {
	case KindMultipleChoice, KindConceptMultipleChoice, KindScenarioMultipleChoice:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindMultipleChoice:
		return "multiple_choice"
	case KindConceptMultipleChoice:
		return "concept_multiple_choice"
	case KindScenarioMultipleChoice:
		return "scenario_multiple_choice"
	case KindTrueFalse:
		return "true_false"
	case KindFillInBlank:
		return "fill_in_blank"
	default:
		return "unknown"
	}
}

// Question is the read-only record handed to the engine by the question
// repository. List fields are always decoded; the repository is responsible
// for turning JSON-encoded columns into slices.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"questionText"`
	Type           string   `json:"questionType"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	Explanation    string   `json:"explanation"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  string   `json:"correctAnswer"`
	CorrectAnswers []string `json:"correctAnswers,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Reference      string   `json:"reference,omitempty"`
}

func (q Question) Kind() Kind {
	return ParseKind(q.Type)
}

// Clone returns a deep copy so callers can never alias the session's slices.
func (q Question) Clone() Question {
	c := q
	c.Options = cloneStrings(q.Options)
	c.CorrectAnswers = cloneStrings(q.CorrectAnswers)
	c.Tags = cloneStrings(q.Tags)
	return c
}

// QuestionView is a question copy decorated with its position in a quiz.
type QuestionView struct {
	Question
	QuizID             string  `json:"quizId"`
	QuestionNumber     int     `json:"questionNumber"`
	TotalQuestions     int     `json:"totalQuestions"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// ReviewItem is a wrongly answered question annotated with the submission.
type ReviewItem struct {
	Question
	QuestionIndex  int    `json:"questionIndex"`
	UserAnswer     string `json:"userAnswer"`
	CorrectDisplay string `json:"correctAnswerDisplay"`
	IsCorrect      bool   `json:"isCorrect"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
