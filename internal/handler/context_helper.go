package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/middleware"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

// currentUserID writes a 401 and returns false when the request carries no verified user.
func currentUserID(c *gin.Context) (string, bool) {
	claims := middleware.Claims(c)
	if claims == nil || claims.ActorID() == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.ActorID(), true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
