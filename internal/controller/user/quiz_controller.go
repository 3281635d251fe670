package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leeminji/quizrally/internal/controller"
	"github.com/leeminji/quizrally/internal/controller/middleware"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/service"
)

type QuizController struct {
	userQuizService service.UserQuizService
}

func NewQuizController(userQuizService service.UserQuizService) *QuizController {
	return &QuizController{userQuizService: userQuizService}
}

// GetAllQuizzes lists active quizzes with the caller's attempt status.
func (c *QuizController) GetAllQuizzes(ctx *gin.Context) {
	identity := middleware.CurrentIdentity(ctx)
	resp, err := c.userQuizService.GetAllQuizzes(identity.UserID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DrawQuestions returns a fresh question draw for a quiz the caller has not
// attempted yet. The order is not persisted until the attempt is created.
func (c *QuizController) DrawQuestions(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	resp, err := c.userQuizService.DrawQuestions(quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func queryID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid or missing " + name + " query parameter"})
		return 0, false
	}
	return uint(val), true
}
