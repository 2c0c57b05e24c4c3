package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

type semesterService interface {
	Create(ctx context.Context, userID string, req dto.CreateSemesterRequest) (*dto.CreateSemesterResponse, error)
	HasSemester(ctx context.Context, userID string) (bool, error)
	Get(ctx context.Context, userID string) (*models.Semester, error)
	Schedule(ctx context.Context, userID string) (*dto.SemesterScheduleResponse, error)
	AddBlackout(ctx context.Context, userID string, req dto.AddBlackoutRequest) (*models.BlackoutBlock, error)
	DeleteBlackout(ctx context.Context, userID, blockID string) error
}

// SemesterHandler exposes semester setup and its holiday and exam blocks.
type SemesterHandler struct {
	service semesterService
}

// NewSemesterHandler constructs the handler.
func NewSemesterHandler(service semesterService) *SemesterHandler {
	return &SemesterHandler{service: service}
}

// Create godoc
// @Summary Set up a semester and generate its classes
// @Tags Semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /semesters [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateSemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Current godoc
// @Summary Current semester with its blocks
// @Tags Semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semesters/current [get]
func (h *SemesterHandler) Current(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	semester, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester)
}

// Exists godoc
// @Summary Whether a semester has been set up
// @Tags Semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /semesters/exists [get]
func (h *SemesterHandler) Exists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exists, err := h.service.HasSemester(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// Schedule godoc
// @Summary Holidays and exam blocks of the current semester
// @Tags Semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /semesters/current/schedule [get]
func (h *SemesterHandler) Schedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	schedule, err := h.service.Schedule(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// AddBlackout godoc
// @Summary Add a holiday or exam block
// @Tags Semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AddBlackoutRequest true "Block payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semesters/current/blackouts [post]
func (h *SemesterHandler) AddBlackout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AddBlackoutRequest
	if !bindJSON(c, &req, "invalid block payload") {
		return
	}
	block, err := h.service.AddBlackout(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// DeleteBlackout godoc
// @Summary Remove a holiday or exam block
// @Tags Semesters
// @Security BearerAuth
// @Param id path string true "Block ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /semesters/current/blackouts/{id} [delete]
func (h *SemesterHandler) DeleteBlackout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockID := strings.TrimSpace(c.Param("id"))
	if blockID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "block id is required"))
		return
	}
	if err := h.service.DeleteBlackout(c.Request.Context(), userID, blockID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
