package user

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func UserDisconnect(c *gin.Context, d *internal.Deps) {
	if err := d.Auth.Disconnect(c.Request.Context(), c.GetHeader(middleware.TokenHeader)); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
