package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/api/middleware"
	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/session"
	"github.com/arkadelo/profilehub/internal/utils"
)

type AuthHandler struct {
	provider identity.Provider
	tokens   *identity.TokenIssuer
	roles    *session.RoleReader
	log      *logrus.Logger
}

func NewAuthHandler(provider identity.Provider, tokens *identity.TokenIssuer, roles *session.RoleReader, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, tokens: tokens, roles: roles, log: log}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type sessionResponse struct {
	Token    string             `json:"token"`
	User     *identity.Identity `json:"user"`
	Role     string             `json:"role"`
	Degraded bool               `json:"degraded,omitempty"`
}

func authStatus(code string) int {
	switch code {
	case identity.CodeInvalidEmail, identity.CodeWeakPassword:
		return http.StatusBadRequest
	case identity.CodeEmailInUse:
		return http.StatusConflict
	case identity.CodeUserDisabled:
		return http.StatusForbidden
	case identity.CodeUserNotFound, identity.CodeWrongPassword, identity.CodeInvalidCredential:
		return http.StatusUnauthorized
	default:
		return 0
	}
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	if status := authStatus(identity.CodeOf(err)); status != 0 {
		c.JSON(status, gin.H{
			"code":    identity.CodeOf(err),
			"message": identity.Message(err),
		})
		return
	}
	writeError(c, err)
}

func (h *AuthHandler) establish(c *gin.Context, id *identity.Identity) {
	role, degraded := h.roles.Role(c.Request.Context(), id.UID)

	token, err := h.tokens.Issue(id.UID, string(role))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "AuthHandler", "failed to issue token", err))
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 24*3600, "/", "", false, true)
	c.JSON(http.StatusOK, sessionResponse{
		Token:    token,
		User:     id,
		Role:     string(role),
		Degraded: degraded,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "invalid request body", err))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "please fill in all fields", nil))
		return
	}

	id, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	h.establish(c, id)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Signup", "invalid request body", err))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Signup", "please fill in all fields", nil))
		return
	}

	id, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	h.establish(c, id)
}

type resetRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword dispatches a reset token when called with an email,
// and redeems one when called with token plus new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.ResetPassword", "invalid request body", err))
		return
	}

	if req.Token != "" {
		if err := h.provider.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
			h.writeAuthError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
		return
	}

	if req.Email == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.ResetPassword", "email is required", nil))
		return
	}
	if _, err := h.provider.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reset email sent"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uid, ok := c.Get("user_id"); ok {
		if s, ok := uid.(string); ok && s != "" {
			_ = h.provider.SignOut(c.Request.Context(), s)
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
