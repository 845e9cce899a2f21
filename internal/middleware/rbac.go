package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/internal/authz"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/response"
)

// RequireAction rejects callers whose role may not perform action.
// Anonymous callers are rejected the same way as a mismatched role.
func RequireAction(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.Allowed(CurrentRole(c), action) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to this page"))
			c.Abort()
			return
		}
		c.Next()
	}
}
