// Package respond renders service results in the API's error format
package respond

import (
	"bitwise74/files-manager/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func StatusFor(k service.Kind) int {
	switch k {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindMissingField, service.KindInvalidParent, service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindNotFound, service.KindNoContent:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Error writes err as {"error", "requestID"}. Internal errors are logged and
// never leak their cause.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	status := StatusFor(service.KindOf(err))

	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.String("requestID", requestID), zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     service.Message(err),
		"requestID": requestID,
	})
}
