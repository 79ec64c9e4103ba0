package controller

import (
	"strconv"

	"secplus_backend/internal/service"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

type CreateQuizReq struct {
	Limit      int    `json:"limit" form:"limit"`
	Difficulty string `json:"difficulty" form:"difficulty"`
	Category   string `json:"category" form:"category"`
}

type SubmitAnswerReq struct {
	Answer     string `json:"answer"`
	QuestionID string `json:"questionId"`
}

// bindCreateReq reads quiz options from the query string and, when present,
// the JSON body. Body fields win.
func bindCreateReq(ctx *gin.Context) (CreateQuizReq, error) {
	var req CreateQuizReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return req, err
		}
	}
	req.Difficulty = util.NormalizeDifficulty(req.Difficulty)
	return req, nil
}

// @Summary List exam sections
// @Description All five sections with per-category question counts
// @Tags Quiz
// @Produce json
// @Success 200 {object} util.Response
// @Router /quiz/sections [get]
func (c *QuizController) GetSections(ctx *gin.Context) {
	sections, err := c.Service.GetAllSections(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// @Summary Get one exam section
// @Tags Quiz
// @Produce json
// @Param section path int true "Section number (1-5)"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /quiz/sections/{section} [get]
func (c *QuizController) GetSection(ctx *gin.Context) {
	section, err := strconv.Atoi(ctx.Param("section"))
	if err != nil {
		util.BadRequest(ctx, util.ErrInvalidSection.Error())
		return
	}
	info, err := c.Service.GetSectionInfo(ctx.Request.Context(), section)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, info)
}

// @Summary Start a section quiz
// @Tags Quiz
// @Accept json
// @Produce json
// @Param section path int true "Section number (1-5)"
// @Param body body CreateQuizReq false "Limit and difficulty"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/create/section/{section} [post]
func (c *QuizController) CreateSectionQuiz(ctx *gin.Context) {
	section, err := strconv.Atoi(ctx.Param("section"))
	if err != nil {
		util.BadRequest(ctx, util.ErrInvalidSection.Error())
		return
	}
	req, err := bindCreateReq(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.Service.CreateSectionQuiz(ctx.Request.Context(), section, req.Limit, req.Difficulty)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// @Summary Start a category quiz
// @Tags Quiz
// @Accept json
// @Produce json
// @Param body body CreateQuizReq true "Category, limit and difficulty"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/create/category [post]
func (c *QuizController) CreateCategoryQuiz(ctx *gin.Context) {
	req, err := bindCreateReq(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Category == "" {
		util.BadRequest(ctx, "category is required")
		return
	}

	created, err := c.Service.CreateCategoryQuiz(ctx.Request.Context(), req.Category, req.Limit, req.Difficulty)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// @Summary Start a random quiz
// @Tags Quiz
// @Accept json
// @Produce json
// @Param body body CreateQuizReq false "Limit and difficulty"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/create/random [post]
func (c *QuizController) CreateRandomQuiz(ctx *gin.Context) {
	req, err := bindCreateReq(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.Service.CreateRandomQuiz(ctx.Request.Context(), req.Limit, req.Difficulty)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// @Summary Start a practice test
// @Description Questions are spread over sections by exam weight
// @Tags Quiz
// @Accept json
// @Produce json
// @Param body body service.PracticeTestReq false "Question count, sections and difficulty"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/create/practice-test [post]
func (c *QuizController) CreatePracticeTest(ctx *gin.Context) {
	var req service.PracticeTestReq
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = util.QueryInt(ctx.Query("count"), 0)
	}
	if req.Difficulty == "" {
		req.Difficulty = ctx.Query("difficulty")
	}
	req.Difficulty = util.NormalizeDifficulty(req.Difficulty)

	created, err := c.Service.CreatePracticeTest(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// @Summary Get a quiz question
// @Description Moves the quiz cursor to the question; 0 returns the current one
// @Tags Quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param number path int true "Question number, 1-based"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId}/question/{number} [get]
func (c *QuizController) GetQuestion(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid question number")
		return
	}
	view, err := c.Service.GetQuestion(ctx.Param("quizId"), number)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Submit an answer
// @Description Grades the current question and advances the quiz
// @Tags Quiz
// @Accept json
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param body body SubmitAnswerReq true "Answer"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId}/submit [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.SubmitAnswer(ctx.Param("quizId"), req.Answer, req.QuestionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Get quiz results
// @Description Completes the quiz; signed-in users get it saved to their history
// @Tags Quiz
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId}/results [get]
func (c *QuizController) GetResults(ctx *gin.Context) {
	res, err := c.Service.GetResults(ctx.Request.Context(), ctx.Param("quizId"), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Review wrong answers
// @Tags Quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId}/review [get]
func (c *QuizController) GetReview(ctx *gin.Context) {
	items, err := c.Service.GetReview(ctx.Param("quizId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"wrongQuestions": items, "count": len(items)})
}

// @Summary Discard a quiz
// @Tags Quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId} [delete]
func (c *QuizController) Cleanup(ctx *gin.Context) {
	if err := c.Service.Cleanup(ctx.Param("quizId")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
