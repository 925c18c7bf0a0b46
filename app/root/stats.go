package root

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Stats(c *gin.Context, d *internal.Deps) {
	ctx := c.Request.Context()

	users, err := d.DB.CountUsers(ctx)
	if err != nil {
		respond.Error(c, fmt.Errorf("failed to count users, %w", err))
		return
	}

	files, err := d.DB.CountFiles(ctx)
	if err != nil {
		respond.Error(c, fmt.Errorf("failed to count files, %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"files": files,
	})
}
