package controller

import (
	"errors"
	"net/http"

	"secplus_backend/internal/quiz"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinels to status codes. Anything unknown is
// logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		util.NotFoundMessage(ctx, "Quiz not found or expired")
	case errors.Is(err, util.ErrFlashcardSessionNotFound):
		util.NotFoundMessage(ctx, "Flashcard session not found or expired")
	case errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, util.ErrNoFlashcards),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCardOutOfRange):
		util.NotFoundMessage(ctx, err.Error())
	case errors.Is(err, quiz.ErrNoCurrentQuestion):
		util.BadRequest(ctx, "No current question, the quiz is finished")
	case errors.Is(err, quiz.ErrQuestionMismatch):
		util.BadRequest(ctx, "Answer does not match the current question")
	case errors.Is(err, util.ErrInvalidSection),
		errors.Is(err, util.ErrInvalidDirection),
		errors.Is(err, util.ErrInvalidBankFormat):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrStorageNotConfigured):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID is empty for anonymous requests.
func currentUserID(ctx *gin.Context) string {
	if user := util.GetUserFromContext(ctx); user != nil {
		return user.UserID
	}
	return ""
}
