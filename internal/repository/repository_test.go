package repository

import (
	"context"
	"testing"
	"time"

	"secplus_backend/internal/model"
	"secplus_backend/internal/quiz"
	"secplus_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"json strings", `["A", "B"]`, []string{"A", "B"}},
		{"json numbers", `[1, 2.5]`, []string{"1", "2.5"}},
		{"nulls dropped", `["A", null]`, []string{"A"}},
		{"not json", "A, B", nil},
		{"broken json", `["A"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeList(tt.raw))
		})
	}
}

func TestDecodeAnswers(t *testing.T) {
	assert.Nil(t, decodeAnswers("  "))
	assert.Equal(t, []string{"PKI", "Public Key Infrastructure"}, decodeAnswers(`["PKI","Public Key Infrastructure"]`))
	assert.Equal(t, []string{"PKI"}, decodeAnswers("PKI"))
	assert.Equal(t, []string{`["PKI"`}, decodeAnswers(`["PKI"`))
	assert.Equal(t, []string{"PKI"}, decodeAnswers(`"PKI"`))
	assert.Nil(t, decodeAnswers("null"))
	assert.Nil(t, decodeAnswers(`""`))
}

func TestStoredFillInBlankAnswersGrade(t *testing.T) {
	scalar := ToQuizQuestion(&model.Question{QuestionType: "fill_in_blank", CorrectAnswers: `"PKI"`})
	ok, _ := quiz.CheckAnswer(&scalar, "pki")
	assert.True(t, ok)
	assert.Equal(t, "PKI", quiz.CorrectAnswerDisplay(&scalar))

	null := ToQuizQuestion(&model.Question{QuestionType: "fill_in_blank", CorrectAnswer: "RADIUS", CorrectAnswers: "null"})
	ok, _ = quiz.CheckAnswer(&null, "null")
	assert.False(t, ok)
	ok, _ = quiz.CheckAnswer(&null, "radius")
	assert.True(t, ok)
	assert.Equal(t, "RADIUS", quiz.CorrectAnswerDisplay(&null))
}

func TestQuestionCodecRoundTrip(t *testing.T) {
	q := quiz.Question{
		ID:             "q-1",
		Text:           "Which protocol?",
		Type:           "multiple_choice",
		Options:        []string{"SSH", "Telnet"},
		CorrectAnswer:  "0",
		CorrectAnswers: []string{"SSH"},
		Tags:           []string{"network"},
	}
	row := FromQuizQuestion(&q)
	assert.Equal(t, `["SSH","Telnet"]`, row.Options)
	assert.Equal(t, q, ToQuizQuestion(row))

	empty := FromQuizQuestion(&quiz.Question{Text: "x"})
	assert.Equal(t, "", empty.Options)
	assert.Equal(t, "", empty.Tags)
}

func seedQuestions(t *testing.T, repo *QuestionRepository) {
	t.Helper()
	ctx := context.Background()
	rows := []*model.Question{
		{QuestionText: "q1", QuestionType: "true_false", Category: "Malware", Difficulty: "easy", CorrectAnswer: "True", Tags: `["worm"]`},
		{QuestionText: "q2", QuestionType: "multiple_choice", Category: "Malware", Difficulty: "hard", Options: `["A","B"]`, CorrectAnswer: "1", Tags: `["ransomware","worm"]`},
		{QuestionText: "q3", QuestionType: "fill_in_blank", Category: "Risk Management", Difficulty: "easy", CorrectAnswers: "ALE"},
	}
	for _, row := range rows {
		require.NoError(t, repo.Create(ctx, row))
		time.Sleep(2 * time.Millisecond)
	}
}

func TestQuestionRepository(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t), nil)
	seedQuestions(t, repo)
	ctx := context.Background()

	all, err := repo.GetQuestions(ctx, quiz.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "q3", all[0].Text, "newest first")
	assert.Equal(t, []string{"ALE"}, all[0].CorrectAnswers)

	malware, err := repo.GetQuestions(ctx, quiz.QuestionFilter{Category: "Malware"})
	require.NoError(t, err)
	assert.Len(t, malware, 2)

	hard, err := repo.GetQuestions(ctx, quiz.QuestionFilter{Category: "Malware", Difficulty: "hard"})
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, []string{"A", "B"}, hard[0].Options)

	page, err := repo.GetQuestions(ctx, quiz.QuestionFilter{Limit: 1, Skip: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "q2", page[0].Text)

	count, err := repo.GetQuestionCount(ctx, "Malware", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.GetQuestionCount(ctx, "", "easy")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	one, err := repo.GetQuestion(ctx, hard[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "q2", one.Text)

	_, err = repo.GetQuestion(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryCount{{Category: "Malware", Count: 2}, {Category: "Risk Management", Count: 1}}, cats)

	tags, err := repo.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ransomware", "worm"}, tags)

	exists, err := repo.ExistsByText(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, exists)

	// no redis configured
	repo.InvalidateCounts(ctx)
}

func TestProgressRepositorySaveQuizResultOnce(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()

	result := func() *model.QuizResult {
		return &model.QuizResult{UserID: "u1", QuizID: "random_quiz_1", QuizType: "random_quiz", Score: 3, TotalQuestions: 4, Percentage: 75, CompletedAt: time.Now()}
	}

	created, err := repo.SaveQuizResult(ctx, result())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.SaveQuizResult(ctx, result())
	require.NoError(t, err)
	assert.False(t, created)

	other := result()
	other.UserID = "u2"
	created, err = repo.SaveQuizResult(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)

	history, err := repo.QuizHistory(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestProgressRepositorySince(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	for i, age := range []time.Duration{48 * time.Hour, time.Hour, 40 * 24 * time.Hour} {
		_, err := repo.SaveQuizResult(ctx, &model.QuizResult{
			UserID: "u1", QuizID: string(rune('a' + i)), Percentage: float64(i), CompletedAt: now.Add(-age),
		})
		require.NoError(t, err)
		require.NoError(t, repo.SaveStudySession(ctx, &model.StudySession{
			UserID: "u1", SessionType: model.StudyQuiz, DurationSeconds: 60, StartedAt: now.Add(-age), EndedAt: now.Add(-age).Add(time.Minute),
		}))
	}

	recent, err := repo.QuizResultsSince(ctx, "u1", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CompletedAt.Before(recent[1].CompletedAt))

	sessions, err := repo.StudySessionsSince(ctx, "u1", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
