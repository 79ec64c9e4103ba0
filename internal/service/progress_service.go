package service

import (
	"context"
	"math"
	"time"

	"secplus_backend/internal/model"
	"secplus_backend/internal/repository"
	"secplus_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 10
	defaultTrendDays    = 30
	sectionCount        = 5
)

type ProgressService struct {
	Repo *repository.ProgressRepository
	now  func() time.Time
}

func NewProgressService(repo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{Repo: repo, now: time.Now}
}

// SaveQuizResult stores a finished quiz for userID. It reports false when the
// same quiz was already saved for that user.
func (s *ProgressService) SaveQuizResult(ctx context.Context, userID string, result *model.QuizResult) (bool, error) {
	result.UserID = userID
	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.now()
	}
	saved, err := s.Repo.SaveQuizResult(ctx, result)
	if err != nil {
		return false, err
	}
	if saved {
		logger.Log.Info("Quiz result saved",
			zap.String("userId", userID),
			zap.String("quizId", result.QuizID),
			zap.Float64("percentage", result.Percentage))
	}
	return saved, nil
}

func (s *ProgressService) QuizHistory(ctx context.Context, userID string, limit int) ([]model.QuizResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.Repo.QuizHistory(ctx, userID, limit)
}

func (s *ProgressService) Statistics(ctx context.Context, userID string) (*model.UserStatistics, error) {
	results, err := s.Repo.QuizResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	flashcards, err := s.Repo.FlashcardProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Repo.StudySessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStatistics{}
	var scoreSum float64
	for _, r := range results {
		if r.QuizType == "practice_test" {
			stats.TotalPracticeTests++
		} else {
			stats.TotalQuizzes++
		}
		scoreSum += r.Percentage
	}
	if len(results) > 0 {
		stats.AverageScore = round2(scoreSum / float64(len(results)))
	}
	for _, f := range flashcards {
		stats.TotalFlashcards += f.CardsViewed
	}
	for _, ss := range sessions {
		stats.TotalStudyTimeSeconds += ss.DurationSeconds
	}
	stats.TotalStudyTimeHours = round2(float64(stats.TotalStudyTimeSeconds) / 3600)
	return stats, nil
}

// SectionProgress returns an entry for every section 1..5, zeroed when the
// user has no activity there.
func (s *ProgressService) SectionProgress(ctx context.Context, userID string) (map[int]*model.SectionProgress, error) {
	results, err := s.Repo.QuizResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	flashcards, err := s.Repo.FlashcardProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := make(map[int]*model.SectionProgress, sectionCount)
	scores := make(map[int]float64, sectionCount)
	for n := 1; n <= sectionCount; n++ {
		progress[n] = &model.SectionProgress{}
	}
	for _, r := range results {
		if r.Section == nil {
			continue
		}
		p, ok := progress[*r.Section]
		if !ok {
			continue
		}
		p.QuizzesCompleted++
		p.TotalQuestionsAnswered += r.TotalQuestions
		scores[*r.Section] += r.Percentage
	}
	for _, f := range flashcards {
		if p, ok := progress[f.Section]; ok {
			p.FlashcardsViewed += f.CardsViewed
		}
	}
	for n, p := range progress {
		if p.QuizzesCompleted > 0 {
			p.AverageScore = round2(scores[n] / float64(p.QuizzesCompleted))
		}
	}
	return progress, nil
}

func (s *ProgressService) StudyTime(ctx context.Context, userID string, days int) (*model.StudyTime, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	sessions, err := s.Repo.StudySessionsSince(ctx, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	total := 0
	for _, ss := range sessions {
		total += ss.DurationSeconds
	}
	daily := float64(total) / float64(days)
	return &model.StudyTime{
		TotalSeconds:        total,
		TotalHours:          round2(float64(total) / 3600),
		DailyAverageSeconds: round2(daily),
		DailyAverageHours:   round2(daily / 3600),
		SessionsCount:       len(sessions),
	}, nil
}

// PerformanceTrends lists quiz percentages oldest first.
func (s *ProgressService) PerformanceTrends(ctx context.Context, userID string, days int) ([]model.TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	results, err := s.Repo.QuizResultsSince(ctx, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	points := make([]model.TrendPoint, 0, len(results))
	for _, r := range results {
		points = append(points, model.TrendPoint{
			Percentage:  r.Percentage,
			QuizType:    r.QuizType,
			CompletedAt: r.CompletedAt,
		})
	}
	return points, nil
}

func (s *ProgressService) SaveFlashcardProgress(ctx context.Context, userID string, section, cardsViewed int, sessionID string) error {
	if cardsViewed <= 0 {
		cardsViewed = 1
	}
	return s.Repo.SaveFlashcardProgress(ctx, &model.FlashcardProgress{
		UserID:      userID,
		Section:     section,
		CardsViewed: cardsViewed,
		SessionID:   sessionID,
		ViewedAt:    s.now(),
	})
}

type StudySessionReq struct {
	SessionType     string     `json:"sessionType" binding:"required,oneof=quiz flashcard practice_test"`
	DurationSeconds int        `json:"durationSeconds" binding:"min=0"`
	Section         *int       `json:"section"`
	StartedAt       *time.Time `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
}

// SaveStudySession records time spent. Missing timestamps are derived from
// the duration, ending now.
func (s *ProgressService) SaveStudySession(ctx context.Context, userID string, req StudySessionReq) (*model.StudySession, error) {
	ended := s.now()
	if req.EndedAt != nil {
		ended = *req.EndedAt
	}
	started := ended.Add(-time.Duration(req.DurationSeconds) * time.Second)
	if req.StartedAt != nil {
		started = *req.StartedAt
	}
	session := &model.StudySession{
		UserID:          userID,
		SessionType:     req.SessionType,
		Section:         req.Section,
		DurationSeconds: req.DurationSeconds,
		StartedAt:       started,
		EndedAt:         ended,
	}
	if err := s.Repo.SaveStudySession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
