package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type classService interface {
	List(ctx context.Context) ([]models.ClassDetail, error)
	Create(ctx context.Context, req service.CreateClassRequest) (*models.Class, error)
	Delete(ctx context.Context, id int64) error
	CreateSection(ctx context.Context, classID int64, req service.CreateDivisionRequest) (*models.Section, error)
	CreateGroup(ctx context.Context, classID int64, req service.CreateDivisionRequest) (*models.Group, error)
}

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes with sections and groups
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// CreateForm godoc
// @Summary Allowed class names
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/class/create [get]
func (h *ClassHandler) CreateForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"names": models.ClassNames}, nil)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/class/create [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "class"))
		return
	}
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class, fmt.Sprintf("Class %s created successfully.", class.Name))
}

// Delete godoc
// @Summary Delete class with its sections, groups and syllabus
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/class/{id}/delete [post]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Class deleted successfully.")
}

// CreateSection godoc
// @Summary Add a section to a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.CreateDivisionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /admin/class/{id}/section [post]
func (h *ClassHandler) CreateSection(c *gin.Context) {
	classID, req, ok := h.bindDivision(c)
	if !ok {
		return
	}
	section, err := h.service.CreateSection(c.Request.Context(), classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section, fmt.Sprintf("Section %s created successfully.", section.Name))
}

// CreateGroup godoc
// @Summary Add a group to a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.CreateDivisionRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Router /admin/class/{id}/group [post]
func (h *ClassHandler) CreateGroup(c *gin.Context) {
	classID, req, ok := h.bindDivision(c)
	if !ok {
		return
	}
	group, err := h.service.CreateGroup(c.Request.Context(), classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group, fmt.Sprintf("Group %s created successfully.", group.Name))
}

func (h *ClassHandler) bindDivision(c *gin.Context) (int64, service.CreateDivisionRequest, bool) {
	var req service.CreateDivisionRequest
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return 0, req, false
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "division"))
		return 0, req, false
	}
	return classID, req, true
}
