package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sampleQuestions() []Question {
	return []Question{
		{ID: "q1", Type: "multiple_choice", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "1", Explanation: "B"},
		{ID: "q2", Type: "true_false", CorrectAnswer: "True"},
		{ID: "q3", Type: "fill_in_blank", CorrectAnswers: []string{"AES"}},
	}
}

func newTestSession(t *testing.T, clock *fakeClock) *Session {
	t.Helper()
	s := newSession("test_quiz", TypeRandomQuiz, "", clock.Now)
	s.AddQuestions(sampleQuestions())
	return s
}

func TestSessionAllCorrect(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)
	assert.Equal(t, StateInProgress, s.State())

	for i, answer := range []string{"1", "true", "aes"} {
		clock.Advance(10 * time.Second)
		res, err := s.SubmitAnswer(answer, "")
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, i+1, res.Score)
		assert.Equal(t, i+2, res.NextQuestionNumber)
		assert.Equal(t, i < 2, res.HasNextQuestion)
		assert.Equal(t, i == 2, res.QuizCompleted)
	}

	results := s.Results()
	assert.Equal(t, 3, results.Score)
	assert.Equal(t, 3, results.TotalQuestions)
	assert.Equal(t, 100.0, results.Percentage)
	assert.Equal(t, 0, results.WrongQuestions)
	assert.Equal(t, 30.0, results.DurationSeconds)
	assert.Empty(t, results.WrongQuestionIndices)
	assert.Equal(t, StateCompleted, s.State())
}

func TestSessionMixedAnswers(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	first, err := s.SubmitAnswer("2", "q1")
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)
	assert.Equal(t, "B", first.CorrectAnswer)
	assert.Equal(t, "B", first.Explanation)

	second, err := s.SubmitAnswer("False", "q2")
	require.NoError(t, err)
	assert.False(t, second.IsCorrect)
	assert.Equal(t, 2, second.WrongQuestionsCount)

	third, err := s.SubmitAnswer(" AES ", "q3")
	require.NoError(t, err)
	assert.True(t, third.IsCorrect)
	assert.Equal(t, 100.0, third.Progress)

	results := s.Results()
	assert.Equal(t, 1, results.Score)
	assert.Equal(t, 33.33, results.Percentage)
	assert.Equal(t, []int{0, 1}, results.WrongQuestionIndices)
	assert.Equal(t, results.Score+results.WrongQuestions, len(results.Answers))

	review := s.WrongQuestionsForReview()
	require.Len(t, review, 2)
	assert.Equal(t, "q1", review[0].ID)
	assert.Equal(t, "2", review[0].UserAnswer)
	assert.Equal(t, "B", review[0].CorrectDisplay)
	assert.False(t, review[0].IsCorrect)
	assert.Equal(t, "q2", review[1].ID)
	assert.Equal(t, "True", review[1].CorrectDisplay)
}

func examQuestions() []Question {
	return []Question{
		{ID: "mc", Type: "multiple_choice", Options: []string{"A", "B", "C"}, CorrectAnswer: "0"},
		{ID: "tf", Type: "true_false", CorrectAnswer: "True"},
		{ID: "fib", Type: "fill_in_blank", CorrectAnswers: []string{"PKI"}},
	}
}

func TestSessionZeroIndexScenario(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		score   int
		pct     float64
		wrong   []int
	}{
		{"all correct", []string{"0", "True", "pki"}, 3, 100.0, []int{}},
		{"two wrong", []string{"1", "False", "PKI"}, 1, 33.33, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("exam", TypeRandomQuiz, "", newFakeClock().Now)
			s.AddQuestions(examQuestions())
			for _, a := range tt.answers {
				_, err := s.SubmitAnswer(a, "")
				require.NoError(t, err)
			}

			res := s.Results()
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.pct, res.Percentage)
			assert.Equal(t, tt.wrong, res.WrongQuestionIndices)

			review := s.WrongQuestionsForReview()
			require.Len(t, review, len(tt.wrong))
			for i, idx := range tt.wrong {
				assert.Equal(t, tt.answers[idx], review[i].UserAnswer)
			}
		})
	}
}

func TestSessionRejectsAnswerForOtherQuestion(t *testing.T) {
	s := newTestSession(t, newFakeClock())

	_, err := s.SubmitAnswer("1", "q3")
	assert.ErrorIs(t, err, ErrQuestionMismatch)
	assert.Equal(t, 0, s.CurrentIndex())

	res, err := s.SubmitAnswer("1", "q1")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	_, err = s.SubmitAnswer("true", "")
	require.NoError(t, err)

	answers := s.Results().Answers
	require.Len(t, answers, 2)
	assert.Equal(t, "q1", answers[0].QuestionID)
	assert.Equal(t, "q2", answers[1].QuestionID)
}

func TestSessionSubmitPastEnd(t *testing.T) {
	s := newTestSession(t, newFakeClock())
	for range 3 {
		_, err := s.SubmitAnswer("0", "")
		require.NoError(t, err)
	}

	_, err := s.SubmitAnswer("0", "")
	assert.ErrorIs(t, err, ErrNoCurrentQuestion)
	assert.Equal(t, 3, s.CurrentIndex())

	_, ok := s.CurrentQuestion()
	assert.False(t, ok)
}

func TestSessionSubmitWithoutQuestions(t *testing.T) {
	s := newSession("empty", TypeRandomQuiz, "", newFakeClock().Now)
	assert.Equal(t, StateNotStarted, s.State())

	_, err := s.SubmitAnswer("1", "")
	assert.ErrorIs(t, err, ErrNoCurrentQuestion)

	results := s.Results()
	assert.Equal(t, 0.0, results.Percentage)
	assert.Equal(t, 0, results.TotalQuestions)
}

func TestSessionResultsIdempotent(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)
	_, err := s.SubmitAnswer("1", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	first := s.Results()
	clock.Advance(time.Hour)
	second := s.Results()

	assert.Equal(t, first, second)
	assert.Equal(t, 60.0, second.DurationSeconds)

	_, completedNow := s.Complete()
	assert.False(t, completedNow)
}

func TestSessionCompleteReportsFirstCall(t *testing.T) {
	s := newTestSession(t, newFakeClock())
	_, first := s.Complete()
	assert.True(t, first)
	assert.Equal(t, StateCompleted, s.State())
	_, again := s.Complete()
	assert.False(t, again)
}

func TestSessionSeek(t *testing.T) {
	s := newTestSession(t, newFakeClock())

	view, ok := s.Seek(2)
	require.True(t, ok)
	assert.Equal(t, "q2", view.ID)
	assert.Equal(t, 2, view.QuestionNumber)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.InDelta(t, 66.67, view.ProgressPercentage, 0.01)
	assert.Equal(t, 1, s.CurrentIndex())

	_, ok = s.Seek(0)
	assert.False(t, ok)
	_, ok = s.Seek(4)
	assert.False(t, ok)
	assert.Equal(t, 1, s.CurrentIndex())

	res, err := s.SubmitAnswer("True", "")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 3, res.NextQuestionNumber)
}

func TestSessionNext(t *testing.T) {
	s := newTestSession(t, newFakeClock())
	assert.True(t, s.Next())
	assert.True(t, s.Next())
	assert.False(t, s.Next())
	assert.False(t, s.Next())
	assert.Equal(t, 3, s.CurrentIndex())
}

func TestSessionCopiesQuestions(t *testing.T) {
	qs := sampleQuestions()
	s := newSession("copy", TypeRandomQuiz, "", time.Now)
	s.AddQuestions(qs)

	qs[0].Options[1] = "mutated"
	q, ok := s.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "B", q.Options[1])

	q.Options[1] = "mutated again"
	again, _ := s.CurrentQuestion()
	assert.Equal(t, "B", again.Options[1])
}

func TestSessionConcurrentSubmit(t *testing.T) {
	s := newSession("concurrent", TypeRandomQuiz, "", time.Now)
	qs := make([]Question, 50)
	for i := range qs {
		qs[i] = Question{Type: "true_false", CorrectAnswer: "True"}
	}
	s.AddQuestions(qs)

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			answer := "True"
			if i%2 == 0 {
				answer = "False"
			}
			_, _ = s.SubmitAnswer(answer, "")
		}(i)
	}
	wg.Wait()

	results := s.Results()
	assert.Len(t, results.Answers, 50)
	assert.Equal(t, 50, results.Score+results.WrongQuestions)
}
