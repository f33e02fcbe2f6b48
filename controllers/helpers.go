package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	config "github.com/phillip/edubridge-go/config"
	models "github.com/phillip/edubridge-go/models"
	services "github.com/phillip/edubridge-go/services"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError renders domain errors with their message. Anything else is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.Internal {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// currentIdentity resolves the caller set by AuthMiddleware.
func currentIdentity(c *gin.Context, cfg *config.Config) (*services.Identity, bool) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := services.ResolveIdentity(ctx, cfg.Store, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return id, true
}

// pageRequest reads page and per_page query values.
func pageRequest(c *gin.Context, def int) models.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(def)))
	return models.NewPageRequest(page, size, def)
}
