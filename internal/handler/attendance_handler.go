package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/middleware"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, actorID, instanceID string, req dto.MarkAttendanceRequest) (*models.ClassInstance, error)
	Stats(ctx context.Context, userID string) (*dto.AttendanceStatsResponse, error)
}

// AttendanceHandler records attendance and reports tallies.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Mark godoc
// @Summary Mark attendance for a class
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class instance ID"
// @Param payload body dto.MarkAttendanceRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /instances/{id}/attendance [patch]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	instanceID := strings.TrimSpace(c.Param("id"))
	if instanceID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "instance id is required"))
		return
	}
	var req dto.MarkAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	instance, err := h.service.Mark(c.Request.Context(), userID, instanceID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instance)
}

// Stats godoc
// @Summary Attendance tallies of classes held so far
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, middleware.ResponseMeta(c))
}
