package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

type timetableService interface {
	Save(ctx context.Context, userID string, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	List(ctx context.Context, userID string) ([]dto.TimetableEntryResponse, error)
	HasTimetable(ctx context.Context, userID string) (bool, error)
	KnownSubjects(ctx context.Context, userID string) (*dto.KnownSubjectsResponse, error)
}

// TimetableHandler exposes the weekly timetable.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Save godoc
// @Summary Import weekly timetable rows
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveTimetableRequest true "Timetable rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable [put]
func (h *TimetableHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SaveTimetableRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	resp, err := h.service.Save(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// List godoc
// @Summary Weekly timetable, Monday first
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entries, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{"total": len(entries)})
}

// Exists godoc
// @Summary Whether a timetable has been imported
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /timetable/exists [get]
func (h *TimetableHandler) Exists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exists, err := h.service.HasTimetable(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// KnownSubjects godoc
// @Summary Subject names and aliases seen in imports
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /subjects/known [get]
func (h *TimetableHandler) KnownSubjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	known, err := h.service.KnownSubjects(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, known)
}
