package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type progressCalculator interface {
	Calculate(ctx context.Context, kind models.ProgressKind, id int64) (int, error)
}

// ProgressHandler answers single progress figures for a subject, chapter or class.
type ProgressHandler struct {
	service progressCalculator
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(svc progressCalculator) *ProgressHandler {
	return &ProgressHandler{service: svc}
}

// Get godoc
// @Summary Completion percentage of one entity
// @Tags Syllabus
// @Produce json
// @Param kind path string true "subject, chapter or class"
// @Param id path int true "Entity ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/progress/{kind}/{id} [get]
func (h *ProgressHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	kind := models.ProgressKind(c.Param("kind"))
	progress, err := h.service.Calculate(c.Request.Context(), kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"kind": kind, "id": id, "progress": progress}, nil)
}
