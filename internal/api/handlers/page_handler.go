package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/services"
)

// PageHandler backs the page-level route surface. Pages are JSON
// payloads here; rendering is the client's concern.
type PageHandler struct {
	subs services.SubmissionService
}

func NewPageHandler(subs services.SubmissionService) *PageHandler {
	return &PageHandler{subs: subs}
}

func (h *PageHandler) Login(c *gin.Context)  { c.JSON(http.StatusOK, gin.H{"page": "login"}) }
func (h *PageHandler) Signup(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"page": "signup"}) }
func (h *PageHandler) ResetPassword(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "reset-password"})
}

// RootRedirect is the landing target: admins go to the admin
// destination, everyone else to the user one.
func (h *PageHandler) RootRedirect(c *gin.Context) {
	v, _ := c.Get("role")
	role, _ := v.(string)
	if models.NormalizeRole(role) == models.RoleAdmin {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Dashboard is the authenticated user page: own submissions plus the
// latest one, the data the dashboard view renders.
func (h *PageHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	subs, err := h.subs.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	latest, err := h.subs.LatestByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":        "dashboard",
		"submissions": subs,
		"latest":      latest,
	})
}
