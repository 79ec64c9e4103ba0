package quiz

import (
	"math"
	"sync"
	"time"
)

// Type tags how a session's questions were assembled.
type Type string

const (
	TypeSectionQuiz  Type = "section_quiz"
	TypeCategoryQuiz Type = "category_quiz"
	TypeRandomQuiz   Type = "random_quiz"
	TypePracticeTest Type = "practice_test"
)

// State is the lifecycle phase of a Session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "not_started"
	}
}

// Answer is one entry of the append-only answer log.
type Answer struct {
	QuestionID    string    `json:"questionId"`
	QuestionIndex int       `json:"questionIndex"`
	UserAnswer    string    `json:"userAnswer"`
	CorrectAnswer string    `json:"correctAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// SubmitResult is returned for every graded submission. The cursor has
// already moved past the graded question when it is returned.
type SubmitResult struct {
	IsCorrect           bool    `json:"isCorrect"`
	Explanation         string  `json:"explanation"`
	CorrectAnswer       string  `json:"correctAnswer"`
	UserAnswer          string  `json:"userAnswer"`
	Score               int     `json:"score"`
	TotalQuestions      int     `json:"totalQuestions"`
	Progress            float64 `json:"progress"`
	WrongQuestionsCount int     `json:"wrongQuestionsCount"`
	NextQuestionNumber  int     `json:"questionNumber"`
	HasNextQuestion     bool    `json:"hasNextQuestion"`
	QuizCompleted       bool    `json:"quizCompleted"`
}

// Results is the score report of a session.
type Results struct {
	QuizID               string    `json:"quizId"`
	QuizType             Type      `json:"quizType"`
	Scope                string    `json:"scope,omitempty"`
	Score                int       `json:"score"`
	TotalQuestions       int       `json:"totalQuestions"`
	Percentage           float64   `json:"percentage"`
	WrongQuestions       int       `json:"wrongQuestions"`
	DurationSeconds      float64   `json:"durationSeconds"`
	StartTime            time.Time `json:"startTime"`
	EndTime              time.Time `json:"endTime"`
	Answers              []Answer  `json:"answers"`
	WrongQuestionIndices []int     `json:"wrongQuestionIndices"`
}

// Session holds the state of one quiz attempt. All methods are safe for
// concurrent use; each call runs under the session's own mutex.
type Session struct {
	mu sync.Mutex

	id    string
	typ   Type
	scope string

	questions []Question
	loaded    bool
	current   int
	answers   []Answer
	wrong     []int
	score     int

	startTime    time.Time
	endTime      time.Time
	completed    bool
	lastAccessed time.Time

	now func() time.Time
}

func newSession(id string, typ Type, scope string, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:           id,
		typ:          typ,
		scope:        scope,
		startTime:    t,
		lastAccessed: t,
		now:          now,
	}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Type() Type    { return s.typ }
func (s *Session) Scope() string { return s.scope }

// AddQuestions loads the question list. It is meant to be called exactly
// once, right after assembly; a second call replaces the list but keeps the
// answer log, which leaves the session inconsistent.
func (s *Session) AddQuestions(questions []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = make([]Question, len(questions))
	for i := range questions {
		s.questions[i] = questions[i].Clone()
	}
	s.loaded = true
	s.touch()
}

func (s *Session) TotalQuestions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.completed:
		return StateCompleted
	case s.loaded:
		return StateInProgress
	default:
		return StateNotStarted
	}
}

// CurrentIndex returns the 0-based cursor. It may equal TotalQuestions once
// every question has been answered.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns a copy of the question under the cursor, or false
// when the cursor is outside the list.
func (s *Session) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.currentLocked()
	if q == nil {
		return Question{}, false
	}
	return q.Clone(), true
}

// Seek moves the cursor to the 1-based question number and returns the view
// for it. Out-of-range numbers leave the cursor untouched.
func (s *Session) Seek(number int) (*QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx := number - 1
	if idx < 0 || idx >= len(s.questions) {
		return nil, false
	}
	s.current = idx

	total := len(s.questions)
	return &QuestionView{
		Question:           s.questions[idx].Clone(),
		QuizID:             s.id,
		QuestionNumber:     number,
		TotalQuestions:     total,
		ProgressPercentage: float64(number) / float64(total) * 100,
	}, true
}

// Next advances the cursor by one and reports whether a question remains.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.current < len(s.questions) {
		s.current++
	}
	return s.current < len(s.questions)
}

// SubmitAnswer grades userAnswer against the current question, records it
// and advances the cursor exactly once. It returns ErrNoCurrentQuestion when
// the cursor is exhausted or nothing was loaded. A non-empty questionID must
// name the current question, otherwise ErrQuestionMismatch is returned and
// nothing is recorded.
func (s *Session) SubmitAnswer(userAnswer, questionID string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q := s.currentLocked()
	if q == nil {
		return nil, ErrNoCurrentQuestion
	}
	if questionID != "" && questionID != q.ID {
		return nil, ErrQuestionMismatch
	}

	isCorrect, explanation := CheckAnswer(q, userAnswer)
	display := CorrectAnswerDisplay(q)

	s.answers = append(s.answers, Answer{
		QuestionID:    q.ID,
		QuestionIndex: s.current,
		UserAnswer:    userAnswer,
		CorrectAnswer: display,
		IsCorrect:     isCorrect,
		SubmittedAt:   s.now(),
	})
	if isCorrect {
		s.score++
	} else {
		s.wrong = append(s.wrong, s.current)
	}

	total := len(s.questions)
	s.current++

	return &SubmitResult{
		IsCorrect:           isCorrect,
		Explanation:         explanation,
		CorrectAnswer:       display,
		UserAnswer:          userAnswer,
		Score:               s.score,
		TotalQuestions:      total,
		Progress:            float64(len(s.answers)) / float64(total) * 100,
		WrongQuestionsCount: len(s.wrong),
		NextQuestionNumber:  s.current + 1,
		HasNextQuestion:     s.current < total,
		QuizCompleted:       s.current >= total,
	}, nil
}

// Results builds the score report. The first call marks the session
// completed and freezes the end time, so repeated calls return identical
// reports.
func (s *Session) Results() *Results {
	res, _ := s.Complete()
	return res
}

// Complete is Results that also reports whether this call was the one that
// completed the session.
func (s *Session) Complete() (*Results, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	first := !s.completed
	if first {
		s.completed = true
		s.endTime = s.now()
	}

	total := len(s.questions)
	var percentage float64
	if total > 0 {
		percentage = round2(float64(s.score) / float64(total) * 100)
	}

	answers := make([]Answer, len(s.answers))
	copy(answers, s.answers)
	wrong := make([]int, len(s.wrong))
	copy(wrong, s.wrong)

	return &Results{
		QuizID:               s.id,
		QuizType:             s.typ,
		Scope:                s.scope,
		Score:                s.score,
		TotalQuestions:       total,
		Percentage:           percentage,
		WrongQuestions:       len(s.wrong),
		DurationSeconds:      round2(s.endTime.Sub(s.startTime).Seconds()),
		StartTime:            s.startTime,
		EndTime:              s.endTime,
		Answers:              answers,
		WrongQuestionIndices: wrong,
	}, first
}

// WrongQuestionsForReview returns copies of every wrongly answered question,
// in the order the mistakes were made, annotated from the first matching
// answer record.
func (s *Session) WrongQuestionsForReview() []ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	items := make([]ReviewItem, 0, len(s.wrong))
	for _, idx := range s.wrong {
		if idx < 0 || idx >= len(s.questions) {
			continue
		}
		item := ReviewItem{
			Question:      s.questions[idx].Clone(),
			QuestionIndex: idx,
		}
		for _, a := range s.answers {
			if a.QuestionIndex == idx {
				item.UserAnswer = a.UserAnswer
				item.CorrectDisplay = a.CorrectAnswer
				item.IsCorrect = a.IsCorrect
				break
			}
		}
		items = append(items, item)
	}
	return items
}

// LastAccessed is used by the registry sweep.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

func (s *Session) currentLocked() *Question {
	if s.current < 0 || s.current >= len(s.questions) {
		return nil
	}
	return &s.questions[s.current]
}

func (s *Session) touch() {
	s.lastAccessed = s.now()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
