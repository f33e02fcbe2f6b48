package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
)

const apiVersion = "1.0.0"

func Root(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":  "EduBridge API",
			"version":  apiVersion,
			"database": cfg.StoreDriver,
			"endpoints": gin.H{
				"health":    "/api/health",
				"auth":      "/api/auth",
				"campaigns": "/api/campaigns",
				"users":     "/api/users",
				"donations": "/api/donations",
				"mentors":   "/api/mentors",
			},
		})
	}
}

func HealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := cfg.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":   "unhealthy",
				"message":  "Database connection failed",
				"database": cfg.StoreDriver,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"message":  "EduBridge API is running",
			"database": cfg.StoreDriver,
		})
	}
}
