package controller

import (
	"strconv"

	"secplus_backend/internal/service"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	Service *service.FlashcardService
}

func NewFlashcardController(svc *service.FlashcardService) *FlashcardController {
	return &FlashcardController{Service: svc}
}

type NavigateReq struct {
	Direction string `json:"direction" binding:"required"`
}

// @Summary Start a flashcard session
// @Tags Flashcards
// @Produce json
// @Param section path int true "Section number (1-5)"
// @Param limit query int false "Maximum number of cards"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/section/{section} [post]
func (c *FlashcardController) CreateSession(ctx *gin.Context) {
	section, err := strconv.Atoi(ctx.Param("section"))
	if err != nil {
		util.BadRequest(ctx, util.ErrInvalidSection.Error())
		return
	}

	created, err := c.Service.CreateSession(ctx.Request.Context(), section, util.QueryInt(ctx.Query("limit"), 0))
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.Service.RecordView(ctx.Request.Context(), currentUserID(ctx), created.Card)
	util.Created(ctx, created)
}

// @Summary Get a flashcard
// @Description Without a number the card under the cursor is returned
// @Tags Flashcards
// @Produce json
// @Param sessionId path string true "Flashcard session ID"
// @Param number path int false "Card number, 1-based"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/{sessionId}/card/{number} [get]
func (c *FlashcardController) GetCard(ctx *gin.Context) {
	number := 0
	if raw := ctx.Param("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			util.BadRequest(ctx, "invalid card number")
			return
		}
		number = n
	}

	card, err := c.Service.GetCard(ctx.Param("sessionId"), number)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, card)
}

// @Summary Set the current flashcard
// @Tags Flashcards
// @Produce json
// @Param sessionId path string true "Flashcard session ID"
// @Param number path int true "Card number, 1-based"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/{sessionId}/card/{number} [post]
func (c *FlashcardController) SetCard(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid card number")
		return
	}

	card, err := c.Service.SetCard(ctx.Param("sessionId"), number)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.Service.RecordView(ctx.Request.Context(), currentUserID(ctx), card)
	util.Success(ctx, card)
}

// @Summary List flashcards page by page
// @Tags Flashcards
// @Produce json
// @Param sessionId path string true "Flashcard session ID"
// @Param page query int false "Page" default(1)
// @Param perPage query int false "Cards per page" default(50)
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/{sessionId}/cards [get]
func (c *FlashcardController) GetCards(ctx *gin.Context) {
	page := util.QueryInt(ctx.DefaultQuery("page", "1"), 1)
	perPage := util.QueryInt(ctx.DefaultQuery("perPage", "50"), 50)

	result, err := c.Service.GetPage(ctx.Param("sessionId"), page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Move to the next or previous flashcard
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param sessionId path string true "Flashcard session ID"
// @Param body body NavigateReq true "next or previous"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/{sessionId}/navigate [post]
func (c *FlashcardController) Navigate(ctx *gin.Context) {
	var req NavigateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.Service.Navigate(ctx.Param("sessionId"), req.Direction)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.Service.RecordView(ctx.Request.Context(), currentUserID(ctx), card)
	util.Success(ctx, card)
}

// @Summary End a flashcard session
// @Tags Flashcards
// @Produce json
// @Param sessionId path string true "Flashcard session ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /flashcards/{sessionId} [delete]
func (c *FlashcardController) Cleanup(ctx *gin.Context) {
	if err := c.Service.Cleanup(ctx.Param("sessionId")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
