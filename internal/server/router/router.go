package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/server/handlers"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Reports *handlers.ReportsHandler
	Batches *handlers.BatchesHandler
	Auth    *handlers.AuthHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reports := r.Group("/reports")
	reports.GET("/annual/:year", h.Reports.Annual)
	reports.POST("/annual/:year/export", h.Reports.ExportAnnual)

	r.GET("/details/:kind", h.Reports.Details)
	r.POST("/details/:kind/export", h.Reports.ExportDetails)

	batches := r.Group("/batches")
	batches.GET("", h.Batches.List)
	batches.POST("", h.Batches.Create)
	batches.GET("/names", h.Batches.Names)
	batches.GET("/:id", h.Batches.Get)
	batches.PUT("/:id", h.Batches.Update)
	batches.DELETE("/:id", h.Batches.Delete)
	batches.GET("/:id/members", h.Batches.Members)

	r.POST("/auth/login", h.Auth.Login)

	logger.Info("router initialized")
	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
