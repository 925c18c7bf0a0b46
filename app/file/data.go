package file

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileData streams the bytes of a file, or one of its derivatives when size
// is given. Anonymous callers may read public files.
func FileData(c *gin.Context, d *internal.Deps) {
	content, err := d.Files.GetContent(c.Request.Context(), middleware.Requester(c), c.Param("id"), c.Query("size"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Data(http.StatusOK, content.ContentType, content.Data)
}
