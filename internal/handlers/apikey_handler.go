package handlers

import (
	"net/http"
	"strings"
	"time"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/logging"
	"project-crm-api/internal/models"
	"project-crm-api/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultEnvironment = "production"

// APIKeyRequest is the body of POST and PUT /api/apikeys
type APIKeyRequest struct {
	Name        *string `json:"name"`
	Service     *string `json:"service"`
	Key         *string `json:"api_key"`
	Secret      *string `json:"api_secret"`
	Environment *string `json:"environment"`
	Notes       *string `json:"notes"`
}

// MaskedAPIKey is the list/write view: the raw credentials are replaced by
// masked copies.
type MaskedAPIKey struct {
	models.APIKey
	KeyMasked    string  `json:"api_key_masked"`
	SecretMasked *string `json:"api_secret_masked"`
}

// MaskKey hides all but the last four characters
func MaskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return "****"
	}
	return strings.Repeat("•", len(runes)-4) + string(runes[len(runes)-4:])
}

func mask(k models.APIKey) MaskedAPIKey {
	out := MaskedAPIKey{APIKey: k, KeyMasked: MaskKey(k.Key)}
	if k.Secret != nil && *k.Secret != "" {
		masked := MaskKey(*k.Secret)
		out.SecretMasked = &masked
	}
	out.APIKey.Key = ""
	out.APIKey.Secret = nil
	return out
}

func (r *APIKeyRequest) apply(k *models.APIKey) {
	if r.Name != nil {
		k.Name = *r.Name
	}
	if r.Service != nil {
		k.Service = *r.Service
	}
	if r.Key != nil {
		k.Key = *r.Key
	}
	if r.Secret != nil {
		k.Secret = nilIfBlank(*r.Secret)
	}
	if r.Environment != nil {
		k.Environment = *r.Environment
	}
	if r.Notes != nil {
		k.Notes = *r.Notes
	}
}

// GetAPIKeys handles GET /api/apikeys?search=&environment=
func GetAPIKeys(c *gin.Context) {
	q := query.New("service ASC", "name ASC").
		Eq("environment", c.Query("environment")).
		Search(c.Query("search"), "name", "service")

	var keys []models.APIKey
	if err := q.Apply(database.GetDB().WithContext(c.Request.Context()).Model(&models.APIKey{})).Find(&keys).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}

	out := make([]MaskedAPIKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, mask(k))
	}
	c.JSON(http.StatusOK, out)
}

// GetAPIKeyByID handles GET /api/apikeys/:id. It returns the full
// credential and stamps last_used.
func GetAPIKeyByID(c *gin.Context) {
	db := database.GetDB().WithContext(c.Request.Context())
	var key models.APIKey
	if err := db.Where("id = ?", c.Param("id")).First(&key).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "API key"))
		return
	}

	now := time.Now().UTC()
	if err := db.Model(&key).UpdateColumn("last_used", now).Error; err != nil {
		// the read still succeeds
		logging.L().Warn("failed to stamp api key last_used", zap.String("api_key_id", key.ID), zap.Error(err))
	} else {
		key.LastUsed = &now
	}
	c.JSON(http.StatusOK, key)
}

// CreateAPIKey handles POST /api/apikeys
func CreateAPIKey(c *gin.Context) {
	var req APIKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Name) || blank(req.Service) || blank(req.Key) {
		respondError(c, apperr.Validation("Name, service, and API key are required"))
		return
	}

	key := models.APIKey{ID: uuid.NewString(), Environment: defaultEnvironment}
	req.apply(&key)
	if key.Environment == "" {
		key.Environment = defaultEnvironment
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&key).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusCreated, mask(key))
}

// UpdateAPIKey handles PUT /api/apikeys/:id
func UpdateAPIKey(c *gin.Context) {
	var req APIKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var key models.APIKey
	if err := db.Where("id = ?", c.Param("id")).First(&key).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "API key"))
		return
	}
	req.apply(&key)
	if key.Name == "" || key.Service == "" || key.Key == "" {
		respondError(c, apperr.Validation("Name, service, and API key are required"))
		return
	}
	if err := db.Save(&key).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusOK, mask(key))
}

// DeleteAPIKey handles DELETE /api/apikeys/:id
func DeleteAPIKey(c *gin.Context) {
	res := database.GetDB().WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).Delete(&models.APIKey{})
	if res.Error != nil {
		respondError(c, apperr.Store(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("API key"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API key deleted successfully"})
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
