package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return nil, appErrors.ErrForbidden
	}
	return claims, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

// optionalQueryID treats a blank value as no filter.
func optionalQueryID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return &id, nil
}

func bindError(err error, what string) error {
	return appErrors.Validation(err, "invalid "+what+" payload")
}
