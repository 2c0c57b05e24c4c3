package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/middleware"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

type todayService interface {
	Today(ctx context.Context, userID string) (*dto.TodayResponse, error)
}

// TodayHandler serves the day view.
type TodayHandler struct {
	service todayService
}

// NewTodayHandler constructs the handler.
func NewTodayHandler(service todayService) *TodayHandler {
	return &TodayHandler{service: service}
}

// Today godoc
// @Summary Today's classes, counters and attendance risk
// @Tags Today
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /today [get]
func (h *TodayHandler) Today(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.service.Today(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, middleware.ResponseMeta(c))
}
