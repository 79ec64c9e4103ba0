package controller

import (
	"io"

	"secplus_backend/internal/service"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxBankUploadSize = 10 << 20

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

type ImportReq struct {
	Key string `json:"key"`
}

// @Summary List questions
// @Tags Questions
// @Produce json
// @Param category query string false "Category"
// @Param difficulty query string false "Difficulty (mixed for any)"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, err := c.Service.ListQuestions(ctx.Request.Context(),
		ctx.Query("category"),
		util.NormalizeDifficulty(ctx.Query("difficulty")),
		util.QueryInt(ctx.DefaultQuery("page", "1"), 1),
		util.QueryInt(ctx.DefaultQuery("pageSize", "20"), 20),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary List categories with question counts
// @Tags Questions
// @Produce json
// @Success 200 {object} util.Response
// @Router /questions/categories [get]
func (c *QuestionController) GetCategories(ctx *gin.Context) {
	cats, err := c.Service.Categories(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cats)
}

// @Summary List question tags
// @Tags Questions
// @Produce json
// @Success 200 {object} util.Response
// @Router /questions/tags [get]
func (c *QuestionController) GetTags(ctx *gin.Context) {
	tags, err := c.Service.Tags(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}

// @Summary Get a question
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	q, err := c.Service.GetQuestion(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Import a question bank
// @Description Upload a JSON or YAML file as "file", or send {"key": "..."} to import from storage
// @Tags Admin
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Question bank file"
// @Param body body ImportReq false "Storage key"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/questions/import [post]
func (c *QuestionController) ImportQuestions(ctx *gin.Context) {
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		if fileHeader.Size > maxBankUploadSize {
			util.BadRequest(ctx, "file too large")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			util.BadRequest(ctx, "cannot read uploaded file")
			return
		}
		defer file.Close()

		mimeType, err := util.ValidateMimeType(file, util.AllowedBankMimeTypes)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			util.LogInternalError(ctx, err)
			return
		}

		res, err := c.Service.ImportUpload(ctx.Request.Context(), fileHeader.Filename, file, mimeType)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, res)
		return
	}

	var req ImportReq
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	res, err := c.Service.ImportFromStorage(ctx.Request.Context(), req.Key)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
