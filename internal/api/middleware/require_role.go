package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/session"
	"github.com/arkadelo/profilehub/internal/utils"
)

// ResolveRole replaces the token's role snapshot with the role from
// the users collection. The read degrades to "user" when the store is
// unreachable; the degradation is exposed so handlers and tests can
// tell it apart from a genuine user role.
func ResolveRole(roles *session.RoleReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		if s, ok := uid.(string); ok && s != "" {
			role, degraded := roles.Role(c.Request.Context(), s)
			c.Set("role", string(role))
			c.Set("role_degraded", degraded)
		}
		c.Next()
	}
}

// RequireRole guards JSON API routes: 403 unless the resolved role is
// in the allowed set.
func RequireRole(allowed ...string) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(string)
		role = strings.ToLower(strings.TrimSpace(role))

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    utils.CodeForbidden,
				"message": "forbidden",
			})
			return
		}

		if _, ok := allow[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    utils.CodeForbidden,
				"message": "forbidden",
			})
			return
		}

		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(string(models.RoleAdmin)) }

// RequireAdminPage guards the admin page routes: an authenticated
// non-admin is redirected to the standard user destination and nothing
// from the admin subtree runs.
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("role")
		role, _ := v.(string)
		if models.NormalizeRole(role) != models.RoleAdmin {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
