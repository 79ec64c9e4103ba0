package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"secplus_backend/internal/quiz"
	"secplus_backend/internal/repository"
	"secplus_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedBank stores n multiple choice questions per category. Every question's
// correct answer is option 0.
func seedBank(t *testing.T, repo *repository.QuestionRepository, n int, categories ...string) {
	t.Helper()
	ctx := context.Background()
	for _, cat := range categories {
		for i := 0; i < n; i++ {
			q := quiz.Question{
				Text:          fmt.Sprintf("%s question %d", cat, i+1),
				Type:          "multiple_choice",
				Category:      cat,
				Difficulty:    "medium",
				Explanation:   "Because option A.",
				Options:       []string{"A", "B", "C", "D"},
				CorrectAnswer: "0",
			}
			require.NoError(t, repo.Create(ctx, repository.FromQuizQuestion(&q)))
		}
	}
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
