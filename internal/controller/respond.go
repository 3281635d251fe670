package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/dto"
)

// RespondError maps a service error onto the wire: tagged errors carry their
// own status, anything untagged is a 500 with a generic message so internals
// do not leak.
func RespondError(ctx *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	message := err.Error()
	if apperror.KindOf(err) == apperror.KindInternal {
		message = "Internal server error"
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message})
}
