package file

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FileList returns one page of the requester's files. A missing or invalid
// page is the first one.
func FileList(c *gin.Context, d *internal.Deps) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 0 {
		page = 0
	}

	files, err := d.Files.List(c.Request.Context(), middleware.Requester(c), c.Query("parentId"), page)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, files)
}
