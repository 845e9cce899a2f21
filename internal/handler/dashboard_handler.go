package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context) (*dto.AdminDashboardResponse, error)
	Teacher(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error)
	Principal(ctx context.Context) (*dto.PrincipalDashboardResponse, bool, error)
}

// DashboardHandler wires the role landing pages to the dashboard service.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Admin godoc
// @Summary Admin dashboard counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/ [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Teacher godoc
// @Summary Teacher dashboard of assigned subjects
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/ [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.Teacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Principal godoc
// @Summary Principal progress overview
// @Description meta.cache_hit reports whether the payload came from Redis.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal/ [get]
func (h *DashboardHandler) Principal(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Principal(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}
