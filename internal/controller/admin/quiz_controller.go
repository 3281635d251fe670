package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leeminji/quizrally/internal/controller"
	"github.com/leeminji/quizrally/internal/controller/middleware"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(quizService service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuiz: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.quizService.CreateQuiz(identity.UserID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	var req dto.QuizUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.quizService.UpdateQuiz(id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	if err := c.quizService.DeleteQuiz(id); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	resp, err := c.quizService.GetQuiz(id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *QuizController) GetAllQuizzes(ctx *gin.Context) {
	resp, err := c.quizService.GetAllQuizzes()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *QuizController) LinkQuestions(ctx *gin.Context) {
	id, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	var req dto.QuizQuestionLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.quizService.LinkQuestions(id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}
