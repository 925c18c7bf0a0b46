package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitwise74/files-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestID")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 10)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "from-proxy")
	assert.Equal(t, "from-proxy", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 65))
	assert.Len(t, serve(r, req).Body.String(), 10, "oversized ids are replaced")
}

func TestBodySizeLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/", BodySizeLimiter(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			if IsBodyTooLarge(err) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way too large"))).Code)

	// no declared length, cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("way too large")))
	req.ContentLength = -1
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)
}

func TestBodySizeLimiterDisabled(t *testing.T) {
	r := gin.New()
	r.POST("/", BodySizeLimiter(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("anything"))).Code)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiterMiddleware(RateLimiterConfig{}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

type resolverFunc func(ctx context.Context, token string) (*model.User, error)

func (f resolverFunc) ResolveRequester(ctx context.Context, token string) (*model.User, error) {
	return f(ctx, token)
}

func sessionRouter(required bool) *gin.Engine {
	resolver := resolverFunc(func(_ context.Context, token string) (*model.User, error) {
		switch token {
		case "good":
			return &model.User{ID: "u1"}, nil
		case "broken":
			return nil, errors.New("redis down")
		}
		return nil, nil
	})

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/", NewSessionMiddleware(resolver, required), func(c *gin.Context) {
		if u := Requester(c); u != nil {
			c.String(http.StatusOK, u.ID+"/"+c.GetString("userID"))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	return r
}

func withToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	return req
}

func TestSessionMiddlewareRequired(t *testing.T) {
	r := sessionRouter(true)

	w := serve(r, withToken("good"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/u1", w.Body.String())

	w = serve(r, withToken(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Unauthorized"`)

	assert.Equal(t, http.StatusUnauthorized, serve(r, withToken("unknown")).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, withToken("broken")).Code)
}

func TestSessionMiddlewareOptional(t *testing.T) {
	r := sessionRouter(false)

	assert.Equal(t, "u1/u1", serve(r, withToken("good")).Body.String())
	assert.Equal(t, "anonymous", serve(r, withToken("")).Body.String())
	assert.Equal(t, "anonymous", serve(r, withToken("unknown")).Body.String())
	assert.Equal(t, http.StatusInternalServerError, serve(r, withToken("broken")).Code)
}
