package file

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func FileFetch(c *gin.Context, d *internal.Deps) {
	file, err := d.Files.Show(c.Request.Context(), middleware.Requester(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}
