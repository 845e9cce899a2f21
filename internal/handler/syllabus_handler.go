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

type syllabusService interface {
	Tree(ctx context.Context) ([]dto.SyllabusClass, error)
	ChapterOptions(ctx context.Context) ([]models.Option, error)
	CreateChapter(ctx context.Context, req service.CreateChapterRequest) (*models.Chapter, error)
	CreateTopic(ctx context.Context, req service.CreateTopicRequest) (*models.Topic, error)
}

type subjectOptions interface {
	Options(ctx context.Context) ([]models.Option, error)
}

// SyllabusHandler exposes the syllabus tree and chapter/topic creation.
type SyllabusHandler struct {
	service  syllabusService
	subjects subjectOptions
}

// NewSyllabusHandler constructs the handler.
func NewSyllabusHandler(svc syllabusService, subjects subjectOptions) *SyllabusHandler {
	return &SyllabusHandler{service: svc, subjects: subjects}
}

// Tree godoc
// @Summary Full syllabus tree with progress
// @Tags Syllabus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/syllabus [get]
func (h *SyllabusHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}

// ChapterForm godoc
// @Summary Chapter form options
// @Tags Syllabus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/chapter/create [get]
func (h *SyllabusHandler) ChapterForm(c *gin.Context) {
	subjects, err := h.subjects.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.OptionsResponse{"subjects": subjects}, nil)
}

// CreateChapter godoc
// @Summary Create chapter
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.CreateChapterRequest true "Chapter payload"
// @Success 201 {object} response.Envelope
// @Router /admin/chapter/create [post]
func (h *SyllabusHandler) CreateChapter(c *gin.Context) {
	var req service.CreateChapterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "chapter"))
		return
	}
	chapter, err := h.service.CreateChapter(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chapter, fmt.Sprintf("Chapter %s created successfully.", chapter.Name))
}

// TopicForm godoc
// @Summary Topic form options
// @Tags Syllabus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/topic/create [get]
func (h *SyllabusHandler) TopicForm(c *gin.Context) {
	chapters, err := h.service.ChapterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.OptionsResponse{"chapters": chapters}, nil)
}

// CreateTopic godoc
// @Summary Create topic
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.CreateTopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Router /admin/topic/create [post]
func (h *SyllabusHandler) CreateTopic(c *gin.Context) {
	var req service.CreateTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "topic"))
		return
	}
	topic, err := h.service.CreateTopic(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic, fmt.Sprintf("Topic %s created successfully.", topic.Name))
}
