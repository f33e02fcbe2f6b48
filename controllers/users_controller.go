package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	services "github.com/phillip/edubridge-go/services"
)

// ---------------- UPDATE PROFILE ----------------
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		var input services.ProfileUpdate
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := cfg.Accounts.UpdateProfile(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully",
			"user":    view,
		})
	}
}

// ---------------- STATS ----------------
func GetUserStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := cfg.Accounts.Stats(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
