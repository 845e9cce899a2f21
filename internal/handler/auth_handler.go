package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

const loginPath = "/auth/login"

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username and password. The token is also stored in the session cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "login"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := middleware.SaveSessionToken(c, res.AccessToken); err != nil {
		response.Error(c, appErrors.Internal(err, "failed to start session"))
		return
	}

	response.OK(c, res, "Logged in successfully.")
}

// Status godoc
// @Summary Current session
// @Description Reports whether the caller is logged in and where they should land.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/login [get]
func (h *AuthHandler) Status(c *gin.Context) {
	status := models.SessionStatus{Redirect: loginPath}
	if claims := middleware.CurrentUser(c); claims != nil {
		status.Authenticated = true
		status.User = &models.UserInfo{
			ID:       claims.UserID,
			Username: claims.Username,
			FullName: claims.FullName,
			Role:     claims.Role,
		}
		status.Redirect = claims.Role.HomePath()
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Logout godoc
// @Summary Log out
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		response.Error(c, appErrors.Internal(err, "failed to end session"))
		return
	}
	response.OK(c, gin.H{"redirect": loginPath}, "You have been logged out.")
}
