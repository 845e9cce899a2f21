package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, incoming string) (string, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	var fromGin, fromCtx string
	r.GET("/ping", func(c *gin.Context) {
		fromGin = Value(c)
		fromCtx = FromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if incoming != "" {
		req.Header.Set(Header, incoming)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Header().Get(Header), fromGin, fromCtx
}

func TestMiddlewareKeepsClientID(t *testing.T) {
	echoed, fromGin, fromCtx := serve(t, "abc-123")
	assert.Equal(t, "abc-123", echoed)
	assert.Equal(t, "abc-123", fromGin)
	assert.Equal(t, "abc-123", fromCtx)
}

func TestMiddlewareReplacesMissingOrOversizedID(t *testing.T) {
	for _, incoming := range []string{"", strings.Repeat("x", maxLength+1)} {
		echoed, fromGin, fromCtx := serve(t, incoming)
		assert.Len(t, echoed, 36)
		assert.Equal(t, echoed, fromGin)
		assert.Equal(t, echoed, fromCtx)
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, FromContext(req.Context()))
}
