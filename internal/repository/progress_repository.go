package repository

import (
	"context"
	"time"

	"secplus_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// SaveQuizResult inserts the result unless the user already has one for the
// same quiz id. It reports whether a row was written.
func (r *ProgressRepository) SaveQuizResult(ctx context.Context, result *model.QuizResult) (bool, error) {
	tx := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).
		Create(result)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *ProgressRepository) QuizHistory(ctx context.Context, userID string, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (r *ProgressRepository) QuizResults(ctx context.Context, userID string) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&results).Error
	return results, err
}

// QuizResultsSince returns results completed at or after since, oldest first.
func (r *ProgressRepository) QuizResultsSince(ctx context.Context, userID string, since time.Time) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Order("completed_at ASC").
		Find(&results).Error
	return results, err
}

func (r *ProgressRepository) SaveFlashcardProgress(ctx context.Context, p *model.FlashcardProgress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProgressRepository) FlashcardProgress(ctx context.Context, userID string) ([]model.FlashcardProgress, error) {
	var rows []model.FlashcardProgress
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) SaveStudySession(ctx context.Context, s *model.StudySession) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *ProgressRepository) StudySessions(ctx context.Context, userID string) ([]model.StudySession, error) {
	var rows []model.StudySession
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) StudySessionsSince(ctx context.Context, userID string, since time.Time) ([]model.StudySession, error) {
	var rows []model.StudySession
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND started_at >= ?", userID, since).
		Find(&rows).Error
	return rows, err
}
