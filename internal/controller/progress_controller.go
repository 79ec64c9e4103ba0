package controller

import (
	"secplus_backend/internal/service"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController serves the signed-in user's study history. Every route
// sits behind AuthMiddleware.
type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary Recent quiz results
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of results" default(10)
// @Success 200 {object} util.Response
// @Router /progress/history [get]
func (c *ProgressController) GetHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.Service.QuizHistory(ctx.Request.Context(), user.UserID, util.QueryInt(ctx.Query("limit"), 10))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

// @Summary Overall statistics
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /progress/statistics [get]
func (c *ProgressController) GetStatistics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Service.Statistics(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary Progress per exam section
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /progress/sections [get]
func (c *ProgressController) GetSectionProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Service.SectionProgress(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Study time
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param days query int false "Look-back window in days" default(30)
// @Success 200 {object} util.Response
// @Router /progress/study-time [get]
func (c *ProgressController) GetStudyTime(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	st, err := c.Service.StudyTime(ctx.Request.Context(), user.UserID, util.QueryInt(ctx.Query("days"), 30))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// @Summary Score trend
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param days query int false "Look-back window in days" default(30)
// @Success 200 {object} util.Response
// @Router /progress/trends [get]
func (c *ProgressController) GetTrends(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	trends, err := c.Service.PerformanceTrends(ctx.Request.Context(), user.UserID, util.QueryInt(ctx.Query("days"), 30))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trends)
}

// @Summary Record a study session
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StudySessionReq true "Study session"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /progress/study-session [post]
func (c *ProgressController) SaveStudySession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StudySessionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.SaveStudySession(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}
