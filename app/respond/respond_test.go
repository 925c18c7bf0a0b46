package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitwise74/files-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := map[service.Kind]int{
		service.KindUnauthorized:  http.StatusUnauthorized,
		service.KindMissingField:  http.StatusBadRequest,
		service.KindInvalidParent: http.StatusBadRequest,
		service.KindInvalidInput:  http.StatusBadRequest,
		service.KindNotFound:      http.StatusNotFound,
		service.KindNoContent:     http.StatusNotFound,
		service.KindInternal:      http.StatusInternalServerError,
	}

	for kind, status := range tests {
		assert.Equal(t, status, StatusFor(kind), kind.String())
	}
}

func TestErrorHidesInternalCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("requestID", "abc")

	Error(c, errors.New("connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","requestID":"abc"}`, w.Body.String())
}
