package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/utils"
)

type ProfileHandler struct {
	svc services.UserService
}

func NewProfileHandler(svc services.UserService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// Update is a partial merge: absent fields stay untouched, and role is
// not part of the payload at all.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UserProfileFields
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	if err := h.svc.SaveProfile(c.Request.Context(), userID, req); err != nil {
		writeError(c, err)
		return
	}

	u, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
