package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, classID *int64) ([]models.SubjectDetail, error)
	Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error)
}

type classOptions interface {
	Options(ctx context.Context) ([]models.Option, error)
}

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	service subjectService
	classes classOptions
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(svc subjectService, classes classOptions) *SubjectHandler {
	return &SubjectHandler{service: svc, classes: classes}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param class_id query int false "Class filter"
// @Success 200 {object} response.Envelope
// @Router /admin/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	classID, err := optionalQueryID(c, "class_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.service.List(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// CreateForm godoc
// @Summary Subject form options
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/subject/create [get]
func (h *SubjectHandler) CreateForm(c *gin.Context) {
	classes, err := h.classes.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.OptionsResponse{"classes": classes}, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/subject/create [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "subject"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject, fmt.Sprintf("Subject %s created successfully.", subject.Name))
}
