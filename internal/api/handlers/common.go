package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func callerFrom(c *gin.Context) services.Caller {
	uid, _ := c.Get("user_id")
	role, _ := c.Get("role")
	uidStr, _ := uid.(string)
	roleStr, _ := role.(string)
	return services.Caller{UID: uidStr, Role: models.NormalizeRole(roleStr)}
}
