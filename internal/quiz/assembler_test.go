package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves questions from memory, honouring category, difficulty
// and limit the way the repository does.
type fakeSource struct {
	questions []Question
	calls     []QuestionFilter
	err       error
}

func (f *fakeSource) GetQuestions(_ context.Context, filter QuestionFilter) ([]Question, error) {
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []Question
	for _, q := range f.questions {
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
	}
	if filter.Skip > 0 {
		if filter.Skip >= len(out) {
			return nil, nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeSource) GetQuestionCount(ctx context.Context, category, difficulty string) (int64, error) {
	qs, err := f.GetQuestions(ctx, QuestionFilter{Category: category, Difficulty: difficulty})
	return int64(len(qs)), err
}

func makeQuestions(category, difficulty string, n int) []Question {
	qs := make([]Question, n)
	prefix := slug(category)
	for i := range qs {
		qs[i] = Question{
			ID:            fmt.Sprintf("%s-%s-%d", prefix, difficulty, i),
			Text:          fmt.Sprintf("%s question %d", category, i),
			Type:          "true_false",
			Category:      category,
			Difficulty:    difficulty,
			CorrectAnswer: "True",
		}
	}
	return qs
}

// fullBank stocks every category of every section with n questions.
func fullBank(n int) []Question {
	var qs []Question
	for _, sec := range DefaultCatalog().All() {
		for _, c := range sec.Categories {
			qs = append(qs, makeQuestions(c, "medium", n)...)
		}
	}
	return qs
}

func newTestAssembler(src QuestionSource) (*Assembler, *Registry) {
	reg := NewRegistry()
	return NewAssembler(src, reg, WithRand(rand.New(rand.NewSource(42)))), reg
}

func sessionQuestions(t *testing.T, s *Session) []Question {
	t.Helper()
	var out []Question
	for i := 1; i <= s.TotalQuestions(); i++ {
		v, ok := s.Seek(i)
		require.True(t, ok)
		out = append(out, v.Question)
	}
	return out
}

func sectionOf(t *testing.T, category string) int {
	t.Helper()
	for _, sec := range DefaultCatalog().All() {
		for _, c := range sec.Categories {
			if c == category {
				return sec.Number
			}
		}
	}
	t.Fatalf("category %q not in any section", category)
	return 0
}

func TestSectionQuiz(t *testing.T) {
	src := &fakeSource{questions: fullBank(3)}
	a, reg := newTestAssembler(src)

	s, err := a.SectionQuiz(context.Background(), 4, 8, "")
	require.NoError(t, err)
	assert.Equal(t, TypeSectionQuiz, s.Type())
	assert.Equal(t, "4", s.Scope())
	assert.True(t, strings.HasPrefix(s.ID(), "section_quiz_4_"))
	assert.Same(t, s, reg.Get(s.ID()))

	qs := sessionQuestions(t, s)
	assert.Len(t, qs, 8)
	for _, q := range qs {
		assert.Equal(t, 4, sectionOf(t, q.Category))
	}
}

func TestSectionQuizDefaultsAndErrors(t *testing.T) {
	src := &fakeSource{questions: fullBank(5)}
	a, reg := newTestAssembler(src)

	s, err := a.SectionQuiz(context.Background(), 1, 0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuizLimit, s.TotalQuestions())

	_, err = a.SectionQuiz(context.Background(), 9, 10, "")
	assert.ErrorIs(t, err, ErrUnknownSection)

	_, err = a.SectionQuiz(context.Background(), 2, 10, "hard")
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, 1, reg.Len())
}

func TestCategoryQuizDedupesAndFilters(t *testing.T) {
	bank := append(makeQuestions("Malware", "easy", 4), makeQuestions("Malware", "hard", 4)...)
	bank = append(bank, bank[0])
	src := &fakeSource{questions: bank}
	a, _ := newTestAssembler(src)

	s, err := a.CategoryQuiz(context.Background(), "Malware", 20, "easy")
	require.NoError(t, err)
	assert.Equal(t, "Malware", s.Scope())

	qs := sessionQuestions(t, s)
	assert.Len(t, qs, 4)
	seen := map[string]bool{}
	for _, q := range qs {
		assert.Equal(t, "easy", q.Difficulty)
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}
}

func TestRandomQuiz(t *testing.T) {
	src := &fakeSource{questions: fullBank(2)}
	a, _ := newTestAssembler(src)

	s, err := a.RandomQuiz(context.Background(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalQuestions())
	require.Len(t, src.calls, 1)
	assert.Equal(t, 15, src.calls[0].Limit)

	_, err = a.RandomQuiz(context.Background(), 5, "expert")
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestPracticeTestFollowsWeights(t *testing.T) {
	src := &fakeSource{questions: fullBank(10)}
	a, _ := newTestAssembler(src)

	s, err := a.PracticeTest(context.Background(), PracticeTestOptions{})
	require.NoError(t, err)
	assert.Equal(t, TypePracticeTest, s.Type())
	require.Equal(t, DefaultPracticeTestCount, s.TotalQuestions())

	counts := map[int]int{}
	ids := map[string]bool{}
	for _, q := range sessionQuestions(t, s) {
		counts[sectionOf(t, q.Category)]++
		assert.False(t, ids[q.ID], "duplicate %s", q.ID)
		ids[q.ID] = true
	}
	assert.Equal(t, map[int]int{1: 22, 2: 27, 3: 19, 4: 14, 5: 8}, counts)
}

func TestPracticeTestTopsUpShortSections(t *testing.T) {
	// section 5 only has two questions, the rest is plentiful
	var bank []Question
	for _, sec := range DefaultCatalog().All() {
		n := 10
		if sec.Number == 5 {
			n = 0
		}
		for _, c := range sec.Categories {
			bank = append(bank, makeQuestions(c, "medium", n)...)
		}
	}
	bank = append(bank, makeQuestions("Risk Management", "medium", 2)...)
	src := &fakeSource{questions: bank}
	a, _ := newTestAssembler(src)

	s, err := a.PracticeTest(context.Background(), PracticeTestOptions{QuestionCount: 90})
	require.NoError(t, err)
	assert.Equal(t, 90, s.TotalQuestions())

	counts := map[int]int{}
	for _, q := range sessionQuestions(t, s) {
		counts[sectionOf(t, q.Category)]++
	}
	assert.Equal(t, 2, counts[5])
}

func TestPracticeTestSectionSubset(t *testing.T) {
	src := &fakeSource{questions: fullBank(10)}
	a, _ := newTestAssembler(src)

	s, err := a.PracticeTest(context.Background(), PracticeTestOptions{QuestionCount: 20, Sections: []int{2, 4, 99}})
	require.NoError(t, err)
	assert.Equal(t, 20, s.TotalQuestions())
	for _, q := range sessionQuestions(t, s) {
		assert.Contains(t, []int{2, 4}, sectionOf(t, q.Category))
	}
}

func TestPracticeTestFallsBackToRandomPool(t *testing.T) {
	// nothing in the bank matches a known category
	src := &fakeSource{questions: makeQuestions("Uncategorized", "medium", 12)}
	a, _ := newTestAssembler(src)

	s, err := a.PracticeTest(context.Background(), PracticeTestOptions{QuestionCount: 10, Difficulty: "medium"})
	require.NoError(t, err)
	assert.Equal(t, 10, s.TotalQuestions())

	last := src.calls[len(src.calls)-1]
	assert.Empty(t, last.Category)
	assert.Empty(t, last.Difficulty)
	assert.Equal(t, 30, last.Limit)
}

func TestPracticeTestEmptyBank(t *testing.T) {
	a, reg := newTestAssembler(&fakeSource{})

	_, err := a.PracticeTest(context.Background(), PracticeTestOptions{})
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, 0, reg.Len())
}

func TestAssemblerSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	a, _ := newTestAssembler(&fakeSource{err: boom})

	_, err := a.CategoryQuiz(context.Background(), "Malware", 10, "")
	assert.ErrorIs(t, err, boom)

	_, err = a.PracticeTest(context.Background(), PracticeTestOptions{})
	assert.ErrorIs(t, err, boom)
}
