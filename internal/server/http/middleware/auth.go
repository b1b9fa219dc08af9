package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
)

const (
	// SessionContextKey is a gin context key for the authenticated admin session.
	SessionContextKey = "adminSession"
	authCookieName    = "leatherdesk_session"
)

// TokenParser resolves a session token into an admin session.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Session, error)
}

// AdminRequired ensures an admin is signed in before accessing handler.
func AdminRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes session token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, 0, "/api/admin", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
