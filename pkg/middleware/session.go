package middleware

import (
	"bitwise74/files-manager/internal/model"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TokenHeader = "X-Token"

// RequesterResolver turns a session token into its user. A nil user with a
// nil error is an anonymous caller.
type RequesterResolver interface {
	ResolveRequester(ctx context.Context, token string) (*model.User, error)
}

// NewSessionMiddleware resolves the X-Token header on every request. When
// required is set anonymous callers are rejected with 401, otherwise they
// pass through without a user.
func NewSessionMiddleware(r RequesterResolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		user, err := r.ResolveRequester(c.Request.Context(), c.GetHeader(TokenHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session", zap.String("requestID", requestID), zap.Error(err))
			return
		}

		if user == nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Unauthorized",
					"requestID": requestID,
				})
				return
			}

			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// Requester returns the user set by the session middleware, or nil
func Requester(c *gin.Context) *model.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}

	return nil
}
