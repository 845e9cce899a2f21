package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

const defaultEmailHistoryLimit = 20

type reportService interface {
	Page(ctx context.Context, filter models.ReportFilter) (*dto.ReportPageResponse, error)
	Render(ctx context.Context, filter models.ReportFilter, format service.ReportFormat) (*service.Document, error)
	Email(ctx context.Context, principalID int64, req dto.EmailReportRequest) (*models.EmailReport, error)
	EmailHistory(ctx context.Context, principalID int64, limit int) ([]models.EmailReport, error)
}

// ReportHandler exposes the principal's progress report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Page godoc
// @Summary Progress per teacher, class and subject
// @Tags Reports
// @Produce json
// @Param class_id query int false "Class filter"
// @Success 200 {object} response.Envelope
// @Router /principal/reports [get]
func (h *ReportHandler) Page(c *gin.Context) {
	filter, err := reportFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.service.Page(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, nil)
}

// Download godoc
// @Summary Download the progress report
// @Tags Reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format path string true "pdf, excel or csv"
// @Param class_id query int false "Class filter"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /principal/reports/download/{format} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	filter, err := reportFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.service.Render(c.Request.Context(), filter, service.ReportFormat(c.Param("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, doc.ContentType, doc.Filename, doc.Body)
}

// Email godoc
// @Summary Email the PDF report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.EmailReportRequest true "Recipients"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /principal/reports/email [post]
func (h *ReportHandler) Email(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "email report"))
		return
	}
	report, err := h.service.Email(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report, fmt.Sprintf("Report emailed to %s.", report.Recipients))
}

// EmailHistory godoc
// @Summary Reports the principal has emailed
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /principal/reports/emails [get]
func (h *ReportHandler) EmailHistory(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit := defaultEmailHistoryLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	reports, err := h.service.EmailHistory(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

func reportFilter(c *gin.Context) (models.ReportFilter, error) {
	classID, err := optionalQueryID(c, "class_id")
	return models.ReportFilter{ClassID: classID}, err
}
