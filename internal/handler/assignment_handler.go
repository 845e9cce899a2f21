package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context) ([]models.TeacherAssignmentDetail, error)
	TeacherOptions(ctx context.Context) ([]models.Option, error)
	Create(ctx context.Context, req service.CreateTeacherAssignmentRequest) (*models.TeacherAssignment, error)
	Delete(ctx context.Context, id int64) error
}

// AssignmentHandler manages teacher assignments.
type AssignmentHandler struct {
	service assignmentService
	classes classOptions
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc assignmentService, classes classOptions) *AssignmentHandler {
	return &AssignmentHandler{service: svc, classes: classes}
}

// List godoc
// @Summary List teacher assignments
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// CreateForm godoc
// @Summary Assignment form options
// @Description Teachers and classes. Sections, groups and subjects come from the class lookups.
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/assignment/create [get]
func (h *AssignmentHandler) CreateForm(c *gin.Context) {
	ctx := c.Request.Context()
	teachers, err := h.service.TeacherOptions(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.classes.Options(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.OptionsResponse{"teachers": teachers, "classes": classes}, nil)
}

// Create godoc
// @Summary Assign a teacher to a subject
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/assignment/create [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.CreateTeacherAssignmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "assignment"))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment, "Teacher assigned successfully.")
}

// Delete godoc
// @Summary Remove a teacher assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/assignment/{id}/delete [post]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Assignment deleted successfully.")
}
