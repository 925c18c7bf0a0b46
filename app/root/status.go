package root

import (
	"bitwise74/files-manager/internal"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Status reports whether the session and metadata stores answer
func Status(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"redis": d.Sessions.IsAlive(ctx),
		"db":    d.DB.IsAlive(ctx),
	})
}
