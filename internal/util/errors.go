package util

import "errors"

var (
	ErrFlashcardSessionNotFound = errors.New("flashcard session not found")
	ErrInvalidSection           = errors.New("invalid section number, must be 1-5")
	ErrNoFlashcards             = errors.New("no flashcards available for this section")
	ErrQuestionNotFound         = errors.New("question not found")
	ErrStorageNotConfigured     = errors.New("question bank storage not configured")
	ErrInvalidBankFormat        = errors.New("question bank must be a JSON or YAML list")
	ErrPermissionDenied         = errors.New("permission denied")
)

var (
	ErrCardOutOfRange   = errors.New("card number out of range")
	ErrInvalidDirection = errors.New("direction must be next or previous")
)
