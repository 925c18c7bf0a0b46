package user

import (
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the caller. The session middleware has already rejected
// anonymous requests.
func UserFetch(c *gin.Context, _ *internal.Deps) {
	u := middleware.Requester(c)

	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
	})
}
