package service

import (
	"context"
	"testing"
	"time"

	"secplus_backend/internal/model"
	"secplus_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressFixture(t *testing.T) (*ProgressService, *testClock) {
	t.Helper()
	svc := NewProgressService(repository.NewProgressRepository(newTestDB(t)))
	clock := newTestClock()
	svc.now = clock.Now
	return svc, clock
}

func intPtr(n int) *int { return &n }

func TestProgressStatisticsAndSections(t *testing.T) {
	svc, clock := newProgressFixture(t)
	ctx := context.Background()
	user := "user-1"

	results := []*model.QuizResult{
		{QuizID: "a", QuizType: "section_quiz", Section: intPtr(1), Score: 8, TotalQuestions: 10, Percentage: 80},
		{QuizID: "b", QuizType: "section_quiz", Section: intPtr(1), Score: 5, TotalQuestions: 10, Percentage: 50},
		{QuizID: "c", QuizType: "practice_test", Score: 60, TotalQuestions: 90, Percentage: 66.67},
	}
	for _, r := range results {
		saved, err := svc.SaveQuizResult(ctx, user, r)
		require.NoError(t, err)
		assert.True(t, saved)
	}
	saved, err := svc.SaveQuizResult(ctx, user, &model.QuizResult{QuizID: "a", QuizType: "section_quiz", Percentage: 10})
	require.NoError(t, err)
	assert.False(t, saved)

	require.NoError(t, svc.SaveFlashcardProgress(ctx, user, 1, 3, "deck"))
	require.NoError(t, svc.SaveFlashcardProgress(ctx, user, 2, 0, ""))

	_, err = svc.SaveStudySession(ctx, user, StudySessionReq{SessionType: model.StudyQuiz, DurationSeconds: 5400})
	require.NoError(t, err)
	_, err = svc.SaveStudySession(ctx, user, StudySessionReq{SessionType: model.StudyFlashcard, DurationSeconds: 1800})
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalQuizzes)
	assert.Equal(t, 1, stats.TotalPracticeTests)
	assert.Equal(t, 4, stats.TotalFlashcards)
	assert.Equal(t, 65.56, stats.AverageScore)
	assert.Equal(t, 7200, stats.TotalStudyTimeSeconds)
	assert.Equal(t, 2.0, stats.TotalStudyTimeHours)

	sections, err := svc.SectionProgress(ctx, user)
	require.NoError(t, err)
	require.Len(t, sections, 5)
	assert.Equal(t, 2, sections[1].QuizzesCompleted)
	assert.Equal(t, 65.0, sections[1].AverageScore)
	assert.Equal(t, 20, sections[1].TotalQuestionsAnswered)
	assert.Equal(t, 3, sections[1].FlashcardsViewed)
	assert.Equal(t, 1, sections[2].FlashcardsViewed)
	assert.Equal(t, 0, sections[5].QuizzesCompleted)

	history, err := svc.QuizHistory(ctx, user, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	empty, err := svc.Statistics(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatistics{}, *empty)

	assert.Equal(t, clock.Now(), results[0].CompletedAt)
}

func TestProgressStudyTimeAndTrends(t *testing.T) {
	svc, clock := newProgressFixture(t)
	ctx := context.Background()
	user := "user-2"

	oldStart := clock.Now().AddDate(0, 0, -40)
	oldEnd := oldStart.Add(time.Hour)
	_, err := svc.SaveStudySession(ctx, user, StudySessionReq{
		SessionType:     model.StudyPracticeTest,
		DurationSeconds: 3600,
		StartedAt:       &oldStart,
		EndedAt:         &oldEnd,
	})
	require.NoError(t, err)

	session, err := svc.SaveStudySession(ctx, user, StudySessionReq{SessionType: model.StudyQuiz, DurationSeconds: 3000, Section: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(-50*time.Minute), session.StartedAt)

	st, err := svc.StudyTime(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, st.SessionsCount)
	assert.Equal(t, 3000, st.TotalSeconds)
	assert.Equal(t, 0.83, st.TotalHours)
	assert.Equal(t, 100.0, st.DailyAverageSeconds)
	assert.Equal(t, 0.03, st.DailyAverageHours)

	st, err = svc.StudyTime(ctx, user, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, st.SessionsCount)

	_, err = svc.SaveQuizResult(ctx, user, &model.QuizResult{QuizID: "old", QuizType: "random_quiz", Percentage: 40, CompletedAt: clock.Now().AddDate(0, 0, -45)})
	require.NoError(t, err)
	_, err = svc.SaveQuizResult(ctx, user, &model.QuizResult{QuizID: "first", QuizType: "random_quiz", Percentage: 60, CompletedAt: clock.Now().AddDate(0, 0, -3)})
	require.NoError(t, err)
	_, err = svc.SaveQuizResult(ctx, user, &model.QuizResult{QuizID: "second", QuizType: "practice_test", Percentage: 75})
	require.NoError(t, err)

	trends, err := svc.PerformanceTrends(ctx, user, 30)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, 60.0, trends[0].Percentage)
	assert.Equal(t, "practice_test", trends[1].QuizType)
}
