package file

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FilePublish sets the visibility of a file to public
func FilePublish(c *gin.Context, d *internal.Deps) {
	setVisibility(c, d, true)
}

func FileUnpublish(c *gin.Context, d *internal.Deps) {
	setVisibility(c, d, false)
}

func setVisibility(c *gin.Context, d *internal.Deps, public bool) {
	file, err := d.Files.Publish(c.Request.Context(), middleware.Requester(c), c.Param("id"), public)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}
