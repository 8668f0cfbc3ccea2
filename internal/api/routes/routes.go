package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/api/handlers"
	"github.com/arkadelo/profilehub/internal/api/middleware"
	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/session"
)

type Deps struct {
	Tokens *identity.TokenIssuer
	Roles  *session.RoleReader

	Auth       *handlers.AuthHandler
	Profile    *handlers.ProfileHandler
	Submission *handlers.SubmissionHandler
	Admin      *handlers.AdminHandler
	Pages      *handlers.PageHandler
	WS         *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth entry points (unauthenticated)
	r.GET("/auth/login", d.Pages.Login)
	r.POST("/auth/login", d.Auth.Login)
	r.GET("/auth/signup", d.Pages.Signup)
	r.POST("/auth/signup", d.Auth.Signup)
	r.GET("/auth/reset-password", d.Pages.ResetPassword)
	r.POST("/auth/reset-password", d.Auth.ResetPassword)

	// Page routes: unauthenticated visitors redirect to /auth/login,
	// role resolved from the users collection before any guard runs
	pages := r.Group("/", middleware.PageAuth(d.Tokens), middleware.ResolveRole(d.Roles))
	pages.GET("/", d.Pages.RootRedirect)
	pages.GET("/dashboard", d.Pages.Dashboard)

	// Legacy aliases
	pages.GET("/home", d.Pages.Dashboard)
	pages.GET("/collector", d.Pages.Dashboard)

	adminPage := pages.Group("/admin", middleware.RequireAdminPage())
	adminPage.GET("", d.Admin.ListSubmissions)

	// JSON API (JWT)
	api := r.Group("/api/v1", middleware.JWTAuth(d.Tokens), middleware.ResolveRole(d.Roles))
	api.POST("/auth/logout", d.Auth.Logout)

	api.GET("/profile/me", d.Profile.Me)
	api.PUT("/profile", d.Profile.Update)

	api.POST("/submissions", d.Submission.Submit)
	api.GET("/submissions/mine", d.Submission.Mine)
	api.GET("/submissions/latest", d.Submission.Latest)
	api.GET("/geocode/reverse", d.Submission.PrefillLocation)

	adminAPI := api.Group("/admin", middleware.RequireAdmin())
	adminAPI.GET("/submissions", d.Admin.ListSubmissions)
	adminAPI.PUT("/users/:uid/role", d.Admin.SetRole)
	adminAPI.GET("/feed", d.WS.SubmissionFeed)

	// Unmatched paths land on the login entry point
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/auth/login")
	})
}
