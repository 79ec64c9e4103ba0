package model

import "time"

type FlashcardProgress struct {
	BaseModel
	UserID      string    `gorm:"size:64;not null;index" json:"userId"`
	Section     int       `gorm:"index" json:"section"`
	CardsViewed int       `gorm:"default:1" json:"cardsViewed"`
	SessionID   string    `gorm:"size:128" json:"sessionId,omitempty"`
	ViewedAt    time.Time `json:"viewedAt"`
}

func (FlashcardProgress) TableName() string {
	return "user_flashcard_progress"
}
