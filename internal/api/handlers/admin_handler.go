package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/utils"
)

type AdminHandler struct {
	users services.UserService
	subs  services.SubmissionService
}

func NewAdminHandler(users services.UserService, subs services.SubmissionService) *AdminHandler {
	return &AdminHandler{users: users, subs: subs}
}

// ListSubmissions returns every record in the collection. The caller
// is passed down so the service can enforce the admin capability
// itself; the route guard alone is not the trust boundary.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	out, err := h.subs.ListAll(c.Request.Context(), callerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.SetRole", "uid is required", nil))
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.SetRole", "invalid request body", err))
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), callerFrom(c), uid, req.Role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": uid, "role": req.Role})
}
