package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

type fakeDashboardSrv struct {
	principal   *dto.PrincipalDashboardResponse
	hit         bool
	lastTeacher int64
}

func (f *fakeDashboardSrv) Admin(context.Context) (*dto.AdminDashboardResponse, error) {
	return &dto.AdminDashboardResponse{Counts: models.SystemCounts{Users: 3}}, nil
}

func (f *fakeDashboardSrv) Teacher(_ context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	f.lastTeacher = teacherID
	return &dto.TeacherDashboardResponse{Assignments: []dto.TeacherDashboardItem{}}, nil
}

func (f *fakeDashboardSrv) Principal(context.Context) (*dto.PrincipalDashboardResponse, bool, error) {
	return f.principal, f.hit, nil
}

func TestDashboardHandlerPrincipalReportsCacheHit(t *testing.T) {
	srv := &fakeDashboardSrv{principal: &dto.PrincipalDashboardResponse{OverallProgress: 50}, hit: true}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/principal/", NewDashboardHandler(srv).Principal)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/principal/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, float64(50), envelope.Data["overall_progress"])
}

func TestDashboardHandlerTeacherUsesCaller(t *testing.T) {
	srv := &fakeDashboardSrv{}
	c, rec := newTestContext(http.MethodGet, "/teacher/", "")
	asUser(c, 9, models.RoleTeacher)

	NewDashboardHandler(srv).Teacher(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), srv.lastTeacher)
}

func TestDashboardHandlerNilService(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/admin/", "")
	NewDashboardHandler(nil).Admin(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
