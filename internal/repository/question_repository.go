package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"secplus_backend/internal/model"
	"secplus_backend/internal/quiz"
	"secplus_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultQuestionLimit = 50
	countKeyPrefix       = "quiz:count:"
	DefaultCountCacheTTL = 5 * time.Minute
)

// QuestionRepository is the question bank. It satisfies quiz.QuestionSource
// and caches counts in redis when a client is configured.
type QuestionRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewQuestionRepository(db *gorm.DB, rdb *redis.Client) *QuestionRepository {
	return &QuestionRepository{DB: db, Redis: rdb, CacheTTL: DefaultCountCacheTTL}
}

var _ quiz.QuestionSource = (*QuestionRepository)(nil)

func (r *QuestionRepository) filtered(ctx context.Context, category, difficulty string) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	return query
}

// GetQuestions returns decoded questions, newest first.
func (r *QuestionRepository) GetQuestions(ctx context.Context, filter quiz.QuestionFilter) ([]quiz.Question, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQuestionLimit
	}

	var rows []model.Question
	err := r.filtered(ctx, filter.Category, filter.Difficulty).
		Order("created_at DESC").
		Offset(filter.Skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	out := make([]quiz.Question, len(rows))
	for i := range rows {
		out[i] = ToQuizQuestion(&rows[i])
	}
	return out, nil
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id string) (*quiz.Question, error) {
	var row model.Question
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	q := ToQuizQuestion(&row)
	return &q, nil
}

// GetQuestionCount counts questions matching the filters. Results are cached
// for CacheTTL; a cache failure falls through to the database.
func (r *QuestionRepository) GetQuestionCount(ctx context.Context, category, difficulty string) (int64, error) {
	key := countKeyPrefix + category + ":" + difficulty

	if r.Redis != nil {
		cached, err := r.Redis.Get(ctx, key).Int64()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("question count cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	var count int64
	if err := r.filtered(ctx, category, difficulty).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}

	if r.Redis != nil {
		if err := r.Redis.Set(ctx, key, count, r.CacheTTL).Err(); err != nil {
			logger.Log.Warn("question count cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return count, nil
}

// ListCategories returns every category with its question count.
func (r *QuestionRepository) ListCategories(ctx context.Context) ([]model.CategoryCount, error) {
	var rows []model.CategoryCount
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("category, COUNT(*) AS count").
		Where("category <> ''").
		Group("category").
		Order("category").
		Scan(&rows).Error
	return rows, err
}

// ListTags returns the sorted set of tags used by any question.
func (r *QuestionRepository) ListTags(ctx context.Context) ([]string, error) {
	var raw []string
	if err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("tags <> ''").Pluck("tags", &raw).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var tags []string
	for _, encoded := range raw {
		for _, tag := range decodeList(encoded) {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *QuestionRepository) ExistsByText(ctx context.Context, text string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("question_text = ?", text).Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

// InvalidateCounts drops every cached count, used after the bank changes.
func (r *QuestionRepository) InvalidateCounts(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	iter := r.Redis.Scan(ctx, 0, countKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("question count cache invalidation failed", zap.Error(err))
	}
}
