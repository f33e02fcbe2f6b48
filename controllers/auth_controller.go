package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	services "github.com/phillip/edubridge-go/services"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.Registration
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		sess, err := cfg.Accounts.Register(ctx, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Registration successful",
			"user":          sess.User,
			"access_token":  sess.AccessToken,
			"refresh_token": sess.RefreshToken,
		})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		sess, err := cfg.Accounts.Authenticate(ctx, input.Email, input.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"user":          sess.User,
			"access_token":  sess.AccessToken,
			"refresh_token": sess.RefreshToken,
		})
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		token, err := cfg.Accounts.Refresh(ctx, c.GetString("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token})
	}
}

// ---------------- LOGOUT ----------------

// Logout only acknowledges; tokens are stateless and expire on their own.
func Logout(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
	}
}

// ---------------- PROFILE ----------------
func GetProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cfg.Accounts.Profile(id))
	}
}
