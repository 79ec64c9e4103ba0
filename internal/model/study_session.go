package model

import "time"

const (
	StudyQuiz         = "quiz"
	StudyFlashcard    = "flashcard"
	StudyPracticeTest = "practice_test"
)

type StudySession struct {
	BaseModel
	UserID          string    `gorm:"size:64;not null;index" json:"userId"`
	SessionType     string    `gorm:"size:32" json:"sessionType"`
	Section         *int      `json:"section,omitempty"`
	DurationSeconds int       `json:"durationSeconds"`
	StartedAt       time.Time `gorm:"index" json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
}

func (StudySession) TableName() string {
	return "user_study_sessions"
}
