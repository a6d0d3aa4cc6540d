package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assembly-directory.backend/internal/infrastructure/storage"
	"assembly-directory.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "assembly-directory-backend"
	serviceVersion = "1.0.0"
)

// applyCORSMiddleware echoes the caller's origin and answers preflight requests
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, metrics *middleware.Metrics) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerUploadsRoute(r *gin.Engine, files *storage.LocalStore) {
	r.Static(files.URLPrefix(), files.Dir())
}
