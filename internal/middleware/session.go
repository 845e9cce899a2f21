package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-syllabus-api/pkg/config"
)

const sessionTokenKey = "access_token"

// Sessions installs the signed cookie store that carries the login token.
func Sessions(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.Name, store)
}

// SaveSessionToken stores the access token in the caller's session cookie.
func SaveSessionToken(c *gin.Context, token string) error {
	session, ok := currentSession(c)
	if !ok {
		return nil
	}
	session.Set(sessionTokenKey, token)
	return session.Save()
}

// ClearSession drops everything stored in the caller's session.
func ClearSession(c *gin.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return nil
	}
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func sessionToken(c *gin.Context) string {
	session, ok := currentSession(c)
	if !ok {
		return ""
	}
	token, _ := session.Get(sessionTokenKey).(string)
	return token
}

// currentSession tolerates routers built without the session middleware.
func currentSession(c *gin.Context) (sessions.Session, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil, false
	}
	return sessions.Default(c), true
}
