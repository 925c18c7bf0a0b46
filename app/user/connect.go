package user

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserConnect opens a session from Basic credentials
func UserConnect(c *gin.Context, d *internal.Deps) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		respond.Error(c, service.ErrUnauthorized)
		return
	}

	token, err := d.Auth.Connect(c.Request.Context(), email, password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
