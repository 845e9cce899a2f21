package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type topicService interface {
	Authorize(ctx context.Context, teacherID, topicID int64) error
	SetCompletion(ctx context.Context, teacherID, topicID int64, completed bool) error
}

type topicUpdateRequest struct {
	IsCompleted bool `json:"is_completed"`
}

// TopicHandler serves the teacher's topic toggle API. It answers with a flat
// {status, message} body rather than the response envelope.
type TopicHandler struct {
	service topicService
}

// NewTopicHandler constructs the handler.
func NewTopicHandler(svc topicService) *TopicHandler {
	return &TopicHandler{service: svc}
}

// Update godoc
// @Summary Mark a topic complete or incomplete
// @Tags Topics
// @Accept json
// @Produce json
// @Param topic_id path int true "Topic ID"
// @Param payload body topicUpdateRequest true "Completion state"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/topic/{topic_id} [post]
func (h *TopicHandler) Update(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		topicStatus(c, err)
		return
	}
	topicID, err := pathID(c, "topic_id")
	if err != nil {
		topicStatus(c, err)
		return
	}
	if err := h.service.Authorize(c.Request.Context(), claims.UserID, topicID); err != nil {
		topicStatus(c, err)
		return
	}
	// A missing body or flag means incomplete.
	var req topicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		topicStatus(c, appErrors.Validation(err, "request body must be a JSON object"))
		return
	}
	if err := h.service.SetCompletion(c.Request.Context(), claims.UserID, topicID, req.IsCompleted); err != nil {
		topicStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Topic updated successfully."})
}

func topicStatus(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"status": "error", "message": appErr.Message})
}
