package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type fakeAuthSrv struct{}

func (fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username != "teacher1" || req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{AccessToken: "teacher-token", Redirect: "/teacher/"}, nil
}

func (fakeAuthSrv) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "teacher-token" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{UserID: 2, Username: "teacher1", Role: models.RoleTeacher}, nil
}

func buildAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Sessions(config.SessionConfig{Name: "s", Secret: "k", MaxAge: time.Hour}))
	router.Use(middleware.Authenticate(fakeAuthSrv{}))
	h := NewAuthHandler(fakeAuthSrv{})
	router.POST("/auth/login", h.Login)
	router.GET("/auth/login", h.Status)
	router.GET("/auth/logout", h.Logout)
	return router
}

func TestAuthHandlerLoginStoresSession(t *testing.T) {
	router := buildAuthRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"teacher1","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	status := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	for _, cookie := range rec.Result().Cookies() {
		status.AddCookie(cookie)
	}
	statusRec := httptest.NewRecorder()
	router.ServeHTTP(statusRec, status)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["authenticated"])
	assert.Equal(t, "/teacher/", envelope.Data["redirect"])
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	router := buildAuthRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"teacher1","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandlerStatusAnonymousAndLogout(t *testing.T) {
	router := buildAuthRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["authenticated"])
	assert.Equal(t, "/auth/login", envelope.Data["redirect"])

	logout := httptest.NewRecorder()
	router.ServeHTTP(logout, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))
	require.NoError(t, json.Unmarshal(logout.Body.Bytes(), &envelope))
	assert.Equal(t, "/auth/login", envelope.Data["redirect"])
	assert.Equal(t, "You have been logged out.", envelope.Meta["message"])
}
