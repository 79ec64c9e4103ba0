package util

// SessionStampFormat is the timestamp embedded in session and archive ids.
const SessionStampFormat = "20060102_150405"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	DifficultyMixed = "mixed"
	DifficultyAll   = "all"
	DifficultyAny   = "any"
)

const (
	EventQuizCompleted   = "quiz.completed"
	EventFlashcardViewed = "flashcard.viewed"
)

// question bank uploads are plain text documents
var AllowedBankMimeTypes = []string{"text/plain", "application/json", "application/x-yaml", "text/yaml"}
