package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type divisionLookup interface {
	SectionsForClass(ctx context.Context, classID int64) ([]models.Option, error)
	GroupsForClass(ctx context.Context, classID int64) ([]models.Option, error)
}

type subjectLookup interface {
	ForClass(ctx context.Context, classID int64) ([]models.Option, error)
}

// LookupHandler serves the dependent dropdown lookups used by admin forms.
// Responses are bare [{id, name}] arrays.
type LookupHandler struct {
	divisions divisionLookup
	subjects  subjectLookup
}

// NewLookupHandler constructs the handler.
func NewLookupHandler(divisions divisionLookup, subjects subjectLookup) *LookupHandler {
	return &LookupHandler{divisions: divisions, subjects: subjects}
}

// Sections godoc
// @Summary Sections of a class
// @Tags Lookups
// @Produce json
// @Param class_id path int true "Class ID"
// @Success 200 {array} models.Option
// @Router /admin/api/sections-for-class/{class_id} [get]
func (h *LookupHandler) Sections(c *gin.Context) {
	h.serve(c, h.divisions.SectionsForClass)
}

// Groups godoc
// @Summary Groups of a class
// @Tags Lookups
// @Produce json
// @Param class_id path int true "Class ID"
// @Success 200 {array} models.Option
// @Router /admin/api/groups-for-class/{class_id} [get]
func (h *LookupHandler) Groups(c *gin.Context) {
	h.serve(c, h.divisions.GroupsForClass)
}

// Subjects godoc
// @Summary Subjects of a class
// @Tags Lookups
// @Produce json
// @Param class_id path int true "Class ID"
// @Success 200 {array} models.Option
// @Router /admin/api/subjects-for-class/{class_id} [get]
func (h *LookupHandler) Subjects(c *gin.Context) {
	h.serve(c, h.subjects.ForClass)
}

func (h *LookupHandler) serve(c *gin.Context, load func(context.Context, int64) ([]models.Option, error)) {
	classID, err := pathID(c, "class_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	options, err := load(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if options == nil {
		options = []models.Option{}
	}
	c.JSON(http.StatusOK, options)
}
