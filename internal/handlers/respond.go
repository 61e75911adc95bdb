package handlers

import (
	"net/http"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/auth"
	"project-crm-api/internal/cache"
	"project-crm-api/internal/config"
	"project-crm-api/internal/logging"
	"project-crm-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	tokenIssuer   *auth.Issuer
	storageConfig config.StorageConfig
	tagListCache  = cache.NewTTL[string, []models.Tag]()
)

// Configure installs the token issuer and blob storage settings used by the handlers
func Configure(issuer *auth.Issuer, storage config.StorageConfig) {
	tokenIssuer = issuer
	storageConfig = storage
	tagListCache.Clear()
}

// respondError writes {"error": msg} with the status mapped from err.
// Store failures pass the driver message through unchanged.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body; a malformed body is a validation error
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("%s", err.Error()))
		return false
	}
	return true
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
