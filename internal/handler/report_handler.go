package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-planner-api/internal/service"
	"github.com/noah-isme/attendance-planner-api/pkg/response"
)

type reportService interface {
	RiskReport(ctx context.Context, userID string) (*service.ReportFile, error)
}

// ReportHandler serves downloadable reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RiskReport godoc
// @Summary Download the attendance risk report
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /reports/risk.pdf [get]
func (h *ReportHandler) RiskReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	file, err := h.service.RiskReport(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, file.Filename, file.Content)
}
