package model

import "time"

// QuizResult is a finished quiz saved for an authenticated user. A quiz id
// is stored at most once per user.
type QuizResult struct {
	BaseModel
	UserID          string    `gorm:"size:64;not null;uniqueIndex:idx_user_quiz" json:"userId"`
	QuizID          string    `gorm:"size:128;not null;uniqueIndex:idx_user_quiz" json:"quizId"`
	QuizType        string    `gorm:"size:32;index" json:"quizType"`
	Section         *int      `gorm:"index" json:"section,omitempty"`
	Scope           string    `gorm:"size:100" json:"scope,omitempty"`
	Score           int       `gorm:"not null" json:"score"`
	TotalQuestions  int       `gorm:"not null" json:"totalQuestions"`
	Percentage      float64   `json:"percentage"`
	DurationSeconds float64   `json:"durationSeconds"`
	CompletedAt     time.Time `gorm:"index" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "user_quiz_results"
}
