package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-syllabus-api/internal/handler"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
)

type tokenStub map[string]models.UserRole

func (s tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := s[token]
	if !ok {
		return nil, errors.New("invalid")
	}
	return &models.JWTClaims{UserID: 1, Role: role}, nil
}

type lookupStub struct{}

func (lookupStub) SectionsForClass(context.Context, int64) ([]models.Option, error) { return nil, nil }
func (lookupStub) GroupsForClass(context.Context, int64) ([]models.Option, error) { return nil, nil }
func (lookupStub) ForClass(context.Context, int64) ([]models.Option, error) { return nil, nil }

func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// Gated handlers are never reached in these cases.
	return SetupRouter(Handlers{
		Auth:        &handler.AuthHandler{},
		Users:       &handler.UserHandler{},
		Classes:     &handler.ClassHandler{},
		Subjects:    &handler.SubjectHandler{},
		Syllabus:    &handler.SyllabusHandler{},
		Assignments: &handler.AssignmentHandler{},
		Progress:    &handler.ProgressHandler{},
		Lookups:     handler.NewLookupHandler(lookupStub{}, lookupStub{}),
		Dashboards:  &handler.DashboardHandler{},
		Topics:      &handler.TopicHandler{},
		Reports:     &handler.ReportHandler{},
		Metrics:     handler.NewMetricsHandler(nil, nil),
	}, Options{
		Tokens: tokenStub{
			"admin":     models.RoleAdmin,
			"teacher":   models.RoleTeacher,
			"principal": models.RolePrincipal,
		},
		Session: config.SessionConfig{Name: "s", Secret: "k", MaxAge: time.Hour},
	})
}

func TestRoutesAreRoleGated(t *testing.T) {
	router := buildRouter()

	cases := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodGet, "/admin/", ""},
		{http.MethodGet, "/admin/users", "teacher"},
		{http.MethodPost, "/admin/user/create", "principal"},
		{http.MethodPost, "/admin/class/3/delete", ""},
		{http.MethodGet, "/admin/syllabus", "teacher"},
		{http.MethodGet, "/admin/progress/subject/1", "principal"},
		{http.MethodPost, "/admin/assignment/1/delete", "principal"},
		{http.MethodGet, "/teacher/", "admin"},
		{http.MethodPost, "/api/topic/5", "principal"},
		{http.MethodPost, "/api/topic/5", ""},
		{http.MethodGet, "/principal/", "teacher"},
		{http.MethodGet, "/principal/reports", "admin"},
		{http.MethodGet, "/principal/reports/download/pdf", ""},
		{http.MethodPost, "/principal/reports/email", "teacher"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" as "+tc.token, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestLookupsArePublic(t *testing.T) {
	router := buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/sections-for-class/not-a-number", nil))

	// Reaches the handler's own validation instead of the role gate.
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/subjects-for-class/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	router := buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
