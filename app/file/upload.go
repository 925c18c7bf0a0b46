package file

import (
	"bitwise74/files-manager/app/respond"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/internal/service"
	"bitwise74/files-manager/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type uploadBody struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID flexID `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	// Anonymous callers are turned away before their body is read
	requester := middleware.Requester(c)
	if requester == nil {
		respond.Error(c, service.ErrUnauthorized)
		return
	}

	var body uploadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		if middleware.IsBodyTooLarge(err) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body too large",
				"requestID": requestID,
			})
			return
		}

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	file, err := d.Files.Upload(c.Request.Context(), requester, service.UploadInput{
		Name:     body.Name,
		Type:     body.Type,
		ParentID: string(body.ParentID),
		IsPublic: body.IsPublic,
		Data:     body.Data,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}
