package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/utils"
)

// SessionCookie carries the bearer token for browser page flows; API
// clients send an Authorization header instead.
const SessionCookie = "ph_session"

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); raw != "" {
			return raw
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func authenticate(c *gin.Context, tokens *identity.TokenIssuer) bool {
	raw := bearerToken(c)
	if raw == "" {
		return false
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		return false
	}

	c.Set("user_id", claims.Subject)
	// token role is a snapshot; ResolveRole overrides it with the
	// authoritative record when wired
	c.Set("role", claims.Role)
	return true
}

// JWTAuth guards the JSON API: 401 on a missing or invalid token.
func JWTAuth(tokens *identity.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing or invalid token",
			})
			return
		}
		c.Next()
	}
}

// PageAuth guards page routes: unauthenticated visitors are sent to
// the login entry point instead of receiving a JSON error.
func PageAuth(tokens *identity.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
