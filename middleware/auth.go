package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	auth "github.com/phillip/edubridge-go/auth"
	config "github.com/phillip/edubridge-go/config"
)

// AuthMiddleware requires a valid access token and sets user_id and role on
// the gin context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return tokenMiddleware(cfg, auth.AccessToken)
}

// RefreshMiddleware is AuthMiddleware for the refresh endpoint.
func RefreshMiddleware(cfg *config.Config) gin.HandlerFunc {
	return tokenMiddleware(cfg, auth.RefreshToken)
}

func tokenMiddleware(cfg *config.Config, want auth.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		claims, err := cfg.Tokens.Parse(strings.TrimSpace(raw), want)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
