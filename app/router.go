// Package app wires the HTTP surface and the job workers together
package app

import (
	"bitwise74/files-manager/app/file"
	"bitwise74/files-manager/app/root"
	"bitwise74/files-manager/app/user"
	"bitwise74/files-manager/internal"
	"bitwise74/files-manager/internal/metrics"
	"bitwise74/files-manager/pkg/middleware"
	"slices"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type RouterConfig struct {
	CORSOrigins []string
	// RateLimit is requests per second per client IP, 0 disables it
	RateLimit     int
	MaxUploadSize int64
	// StatsCacheTTL is how long GET /stats answers are reused, 0 disables caching
	StatsCacheTTL time.Duration
}

func NewRouter(d *internal.Deps, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TokenHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}

	router.Use(
		cors.New(corsCfg),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		metrics.Middleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			CleanupInterval:   time.Minute,
		}),
	)

	router.HandleMethodNotAllowed = true

	authed := middleware.NewSessionMiddleware(d.Auth, true)
	optional := middleware.NewSessionMiddleware(d.Auth, false)

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	// GET /metrics		-> Prometheus metrics
	router.GET("/metrics", metrics.Handler())

	// GET /status			-> Reports whether redis and the database answer
	router.GET("/status", func(c *gin.Context) { root.Status(c, d) })

	// GET /stats			-> Number of users and files
	stats := []gin.HandlerFunc{}
	if cfg.StatsCacheTTL > 0 {
		stats = append(stats, cache.CacheByRequestURI(persist.NewMemoryStore(time.Minute), cfg.StatsCacheTTL))
	}
	stats = append(stats, func(c *gin.Context) { root.Stats(c, d) })
	router.GET("/stats", stats...)

	// GET /connect			-> Opens a session from Basic credentials
	router.GET("/connect", func(c *gin.Context) { user.UserConnect(c, d) })

	// GET /disconnect		-> Closes the session in X-Token
	router.GET("/disconnect", func(c *gin.Context) { user.UserDisconnect(c, d) })

	u := router.Group("/users")
	{
		// POST /users			-> Registers a new user
		u.POST("", func(c *gin.Context) { user.UserRegister(c, d) })

		// GET /users/me		-> Returns the session owner
		u.GET("/me", authed, func(c *gin.Context) { user.UserFetch(c, d) })
	}

	f := router.Group("/files")
	{
		// POST /files			-> Creates a folder or uploads a file
		f.POST("", middleware.BodySizeLimiter(cfg.MaxUploadSize), optional, func(c *gin.Context) { file.FileUpload(c, d) })

		// GET /files			-> Lists the requester's files, 20 per page
		f.GET("", optional, func(c *gin.Context) { file.FileList(c, d) })

		// GET /files/:id		-> Returns a file owned by the requester
		f.GET("/:id", optional, func(c *gin.Context) { file.FileFetch(c, d) })

		// PUT /files/:id/publish	-> Makes a file public
		f.PUT("/:id/publish", optional, func(c *gin.Context) { file.FilePublish(c, d) })

		// PUT /files/:id/unpublish	-> Makes a file private
		f.PUT("/:id/unpublish", optional, func(c *gin.Context) { file.FileUnpublish(c, d) })

		// GET /files/:id/data		-> Returns the bytes of a file or of one of its derivatives
		f.GET("/:id/data", optional, func(c *gin.Context) { file.FileData(c, d) })
	}

	return router
}
