package service

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"secplus_backend/internal/config"
	"secplus_backend/internal/event"
	"secplus_backend/internal/model"
	"secplus_backend/internal/quiz"
	"secplus_backend/internal/util"
	"secplus_backend/pkg/logger"
	"secplus_backend/pkg/monitoring"
	"secplus_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// QuizService is the facade the quiz controller talks to. It owns no quiz
// state itself; sessions live in the registry.
type QuizService struct {
	Registry  *quiz.Registry
	Assembler *quiz.Assembler
	Source    quiz.QuestionSource
	Progress  *ProgressService
	Events    event.Publisher

	defaultLimit  int
	practiceCount int
	timeout       atomic.Int64
}

func NewQuizService(
	registry *quiz.Registry,
	assembler *quiz.Assembler,
	source quiz.QuestionSource,
	progress *ProgressService,
	events event.Publisher,
	cfg config.QuizConfig,
) *QuizService {
	if events == nil {
		events = event.NopPublisher{}
	}
	s := &QuizService{
		Registry:      registry,
		Assembler:     assembler,
		Source:        source,
		Progress:      progress,
		Events:        events,
		defaultLimit:  cfg.DefaultLimit,
		practiceCount: cfg.PracticeTestCount,
	}
	s.SetSessionTimeout(cfg.SessionTimeout)
	return s
}

type QuizCreated struct {
	QuizID         string             `json:"quizId"`
	QuizType       quiz.Type          `json:"quizType"`
	Scope          string             `json:"scope,omitempty"`
	SectionName    string             `json:"sectionName,omitempty"`
	TotalQuestions int                `json:"totalQuestions"`
	Question       *quiz.QuestionView `json:"question,omitempty"`
}

type CategoryInfo struct {
	Name          string `json:"name"`
	QuestionCount int64  `json:"questionCount"`
}

// SectionInfo is a catalog section decorated with live question counts.
type SectionInfo struct {
	quiz.Section
	CategoryCounts []CategoryInfo `json:"categoryCounts"`
	TotalQuestions int64          `json:"totalQuestions"`
}

type PracticeTestReq struct {
	QuestionCount int    `json:"questionCount"`
	Sections      []int  `json:"sections"`
	Difficulty    string `json:"difficulty"`
}

// SetSessionTimeout changes the idle timeout used by SweepExpired.
func (s *QuizService) SetSessionTimeout(d time.Duration) {
	if d <= 0 {
		d = quiz.DefaultSessionTimeout
	}
	s.timeout.Store(int64(d))
}

func (s *QuizService) SessionTimeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

func (s *QuizService) GetAllSections(ctx context.Context) ([]SectionInfo, error) {
	sections := s.Assembler.Catalog().All()
	out := make([]SectionInfo, 0, len(sections))
	for _, sec := range sections {
		info, err := s.sectionInfo(ctx, sec)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, nil
}

func (s *QuizService) GetSectionInfo(ctx context.Context, number int) (*SectionInfo, error) {
	sec, ok := s.Assembler.Catalog().Section(number)
	if !ok {
		return nil, util.ErrInvalidSection
	}
	return s.sectionInfo(ctx, sec)
}

func (s *QuizService) sectionInfo(ctx context.Context, sec quiz.Section) (*SectionInfo, error) {
	info := &SectionInfo{Section: sec, CategoryCounts: make([]CategoryInfo, 0, len(sec.Categories))}
	for _, cat := range sec.Categories {
		n, err := s.Source.GetQuestionCount(ctx, cat, "")
		if err != nil {
			return nil, err
		}
		info.CategoryCounts = append(info.CategoryCounts, CategoryInfo{Name: cat, QuestionCount: n})
		info.TotalQuestions += n
	}
	return info, nil
}

func (s *QuizService) CreateSectionQuiz(ctx context.Context, section, limit int, difficulty string) (*QuizCreated, error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.create_section",
		attribute.Int("quiz.section", section), attribute.String("quiz.difficulty", difficulty))
	defer span.End()

	sess, err := s.Assembler.SectionQuiz(ctx, section, s.limit(limit), difficulty)
	if errors.Is(err, quiz.ErrUnknownSection) {
		err = util.ErrInvalidSection
	}
	created, err := s.created(quiz.TypeSectionQuiz, sess, err)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	if sec, ok := s.Assembler.Catalog().Section(section); ok {
		created.SectionName = sec.Name
	}
	return created, nil
}

func (s *QuizService) CreateCategoryQuiz(ctx context.Context, category string, limit int, difficulty string) (*QuizCreated, error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.create_category",
		attribute.String("quiz.category", category), attribute.String("quiz.difficulty", difficulty))
	defer span.End()

	sess, err := s.Assembler.CategoryQuiz(ctx, category, s.limit(limit), difficulty)
	created, err := s.created(quiz.TypeCategoryQuiz, sess, err)
	if err != nil {
		recordSpanError(span, err)
	}
	return created, err
}

func (s *QuizService) CreateRandomQuiz(ctx context.Context, limit int, difficulty string) (*QuizCreated, error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.create_random", attribute.String("quiz.difficulty", difficulty))
	defer span.End()

	sess, err := s.Assembler.RandomQuiz(ctx, s.limit(limit), difficulty)
	created, err := s.created(quiz.TypeRandomQuiz, sess, err)
	if err != nil {
		recordSpanError(span, err)
	}
	return created, err
}

func (s *QuizService) CreatePracticeTest(ctx context.Context, req PracticeTestReq) (*QuizCreated, error) {
	count := req.QuestionCount
	if count <= 0 {
		count = s.practiceCount
	}
	ctx, span := tracing.StartSpan(ctx, "quiz.create_practice_test",
		attribute.Int("quiz.question_count", count), attribute.String("quiz.difficulty", req.Difficulty))
	defer span.End()

	sess, err := s.Assembler.PracticeTest(ctx, quiz.PracticeTestOptions{
		QuestionCount: count,
		Sections:      req.Sections,
		Difficulty:    req.Difficulty,
	})
	created, err := s.created(quiz.TypePracticeTest, sess, err)
	if err != nil {
		recordSpanError(span, err)
	}
	return created, err
}

func (s *QuizService) created(typ quiz.Type, sess *quiz.Session, err error) (*QuizCreated, error) {
	if err != nil {
		monitoring.QuizAssemblyFailures.WithLabelValues(string(typ), failureReason(err)).Inc()
		return nil, err
	}
	monitoring.QuizSessionsCreated.WithLabelValues(string(typ)).Inc()

	view, _ := sess.Seek(1)
	return &QuizCreated{
		QuizID:         sess.ID(),
		QuizType:       sess.Type(),
		Scope:          sess.Scope(),
		TotalQuestions: sess.TotalQuestions(),
		Question:       view,
	}, nil
}

// GetQuestion returns the 1-based question and moves the cursor there. A
// non-positive number returns the question under the cursor.
func (s *QuizService) GetQuestion(quizID string, number int) (*quiz.QuestionView, error) {
	sess, err := s.session(quizID)
	if err != nil {
		return nil, err
	}
	if number <= 0 {
		number = sess.CurrentIndex() + 1
	}
	view, ok := sess.Seek(number)
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	return view, nil
}

func (s *QuizService) SubmitAnswer(quizID, answer, questionID string) (*quiz.SubmitResult, error) {
	sess, err := s.session(quizID)
	if err != nil {
		return nil, err
	}

	kind := quiz.KindUnknown
	if q, ok := sess.CurrentQuestion(); ok {
		kind = q.Kind()
	}
	res, err := sess.SubmitAnswer(answer, questionID)
	if err != nil {
		return nil, err
	}
	monitoring.QuizAnswersGraded.WithLabelValues(kind.String(), strconv.FormatBool(res.IsCorrect)).Inc()
	return res, nil
}

// GetResults completes the quiz. The first call publishes quiz.completed;
// authenticated callers get the result stored in their history.
func (s *QuizService) GetResults(ctx context.Context, quizID, userID string) (*quiz.Results, error) {
	sess, err := s.session(quizID)
	if err != nil {
		return nil, err
	}

	res, first := sess.Complete()
	if first {
		payload := event.QuizCompleted{
			QuizID:          res.QuizID,
			QuizType:        string(res.QuizType),
			Scope:           res.Scope,
			UserID:          userID,
			Score:           res.Score,
			TotalQuestions:  res.TotalQuestions,
			Percentage:      res.Percentage,
			DurationSeconds: res.DurationSeconds,
		}
		if err := s.Events.Publish(util.EventQuizCompleted, payload); err != nil {
			logger.Log.Warn("Failed to publish quiz event", zap.String("quizId", quizID), zap.Error(err))
		}
	}

	if userID != "" && s.Progress != nil {
		if _, err := s.Progress.SaveQuizResult(ctx, userID, resultRow(res)); err != nil {
			logger.Log.Error("Failed to save quiz result",
				zap.String("quizId", quizID),
				zap.String("userId", userID),
				zap.Error(err))
		}
	}
	return res, nil
}

func (s *QuizService) GetReview(quizID string) ([]quiz.ReviewItem, error) {
	sess, err := s.session(quizID)
	if err != nil {
		return nil, err
	}
	return sess.WrongQuestionsForReview(), nil
}

// Cleanup removes the quiz. Unknown ids report ErrSessionNotFound.
func (s *QuizService) Cleanup(quizID string) error {
	if s.Registry.Get(quizID) == nil {
		return quiz.ErrSessionNotFound
	}
	s.Registry.Remove(quizID)
	return nil
}

func (s *QuizService) SweepExpired() int {
	removed := s.Registry.SweepExpired(s.SessionTimeout())
	monitoring.ActiveSessions.WithLabelValues("quiz").Set(float64(s.Registry.Len()))
	return removed
}

func (s *QuizService) session(quizID string) (*quiz.Session, error) {
	sess := s.Registry.Get(quizID)
	if sess == nil {
		return nil, quiz.ErrSessionNotFound
	}
	return sess, nil
}

func (s *QuizService) limit(n int) int {
	if n <= 0 {
		return s.defaultLimit
	}
	return n
}

func resultRow(res *quiz.Results) *model.QuizResult {
	row := &model.QuizResult{
		QuizID:          res.QuizID,
		QuizType:        string(res.QuizType),
		Scope:           res.Scope,
		Score:           res.Score,
		TotalQuestions:  res.TotalQuestions,
		Percentage:      res.Percentage,
		DurationSeconds: res.DurationSeconds,
		CompletedAt:     res.EndTime,
	}
	if res.QuizType == quiz.TypeSectionQuiz {
		if n, err := strconv.Atoi(res.Scope); err == nil {
			row.Section = &n
		}
	}
	return row
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		return "no_questions"
	case errors.Is(err, util.ErrInvalidSection):
		return "invalid_section"
	default:
		return "source_error"
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
