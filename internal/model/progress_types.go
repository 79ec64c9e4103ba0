package model

import "time"

// UserStatistics aggregates everything a user has done.
type UserStatistics struct {
	TotalQuizzes          int     `json:"totalQuizzes"`
	TotalPracticeTests    int     `json:"totalPracticeTests"`
	TotalFlashcards       int     `json:"totalFlashcards"`
	AverageScore          float64 `json:"averageScore"`
	TotalStudyTimeSeconds int     `json:"totalStudyTimeSeconds"`
	TotalStudyTimeHours   float64 `json:"totalStudyTimeHours"`
}

// SectionProgress is the per-section breakdown, keyed by section number.
type SectionProgress struct {
	QuizzesCompleted       int     `json:"quizzesCompleted"`
	FlashcardsViewed       int     `json:"flashcardsViewed"`
	AverageScore           float64 `json:"averageScore"`
	TotalQuestionsAnswered int     `json:"totalQuestionsAnswered"`
}

type StudyTime struct {
	TotalSeconds        int     `json:"totalSeconds"`
	TotalHours          float64 `json:"totalHours"`
	DailyAverageSeconds float64 `json:"dailyAverageSeconds"`
	DailyAverageHours   float64 `json:"dailyAverageHours"`
	SessionsCount       int     `json:"sessionsCount"`
}

// TrendPoint is one quiz result on the performance timeline.
type TrendPoint struct {
	Percentage  float64   `json:"percentage"`
	QuizType    string    `json:"quizType"`
	CompletedAt time.Time `json:"completedAt"`
}
