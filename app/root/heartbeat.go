package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat answers liveness probes. Proxies must not cache it.
func Heartbeat(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
}
