package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leeminji/quizrally/internal/controller"
	"github.com/leeminji/quizrally/internal/controller/middleware"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(attemptService service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

// CreateAttempt starts the caller's single attempt at a quiz, snapshotting
// the presented question order.
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	var req dto.AttemptCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateAttempt: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.CreateAttempt(identity.UserID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetPresentedQuestion serves one attempt question with its choices in the
// attempt-scoped order.
func (c *AttemptController) GetPresentedQuestion(ctx *gin.Context) {
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	quizID, ok := queryID(ctx, "quiz_id")
	if !ok {
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.GetPresentedQuestion(identity.UserID, quizID, questionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SaveChoiceOrder freezes the choice ordering the client observed. Called when
// a presented question came back with is_ordered=false.
func (c *AttemptController) SaveChoiceOrder(ctx *gin.Context) {
	var req dto.ChoiceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.SaveChoiceOrder(identity.UserID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SelectChoice records the caller's current answer for a question.
func (c *AttemptController) SelectChoice(ctx *gin.Context) {
	var req dto.SelectChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.SelectChoice(identity.UserID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Submit finalizes the caller's attempt and returns the score.
func (c *AttemptController) Submit(ctx *gin.Context) {
	quizID, ok := queryID(ctx, "quiz_id")
	if !ok {
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.Submit(identity.UserID, quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetResult returns the caller's attempt summary for a quiz.
func (c *AttemptController) GetResult(ctx *gin.Context) {
	quizID, ok := queryID(ctx, "quiz_id")
	if !ok {
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.attemptService.GetResult(identity.UserID, quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
