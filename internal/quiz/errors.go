package quiz

import "errors"

var (
	ErrNoCurrentQuestion = errors.New("quiz: no current question")
	ErrNoQuestions       = errors.New("quiz: no questions available")
	ErrSessionNotFound   = errors.New("quiz: session not found")
	ErrUnknownSection    = errors.New("quiz: unknown section")
	ErrQuestionMismatch  = errors.New("quiz: answer is not for the current question")
)
