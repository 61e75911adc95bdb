package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/models"
	"project-crm-api/internal/tagging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	tagListKey = "all"
	tagListTTL = 5 * time.Minute
)

var errTagExists = apperr.Conflict("Tag already exists")

// TagRequest is the body of POST and PUT /api/tags
type TagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// GetTags handles GET /api/tags, ordered by name
func GetTags(c *gin.Context) {
	db := database.GetDB().WithContext(c.Request.Context())
	tags, err := tagListCache.GetOrLoad(tagListKey, tagListTTL, func() ([]models.Tag, error) {
		tags := []models.Tag{}
		if err := db.Order("name ASC").Find(&tags).Error; err != nil {
			return nil, apperr.Store(err)
		}
		return tags, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CreateTag handles POST /api/tags
func CreateTag(c *gin.Context) {
	var req TagRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(c, apperr.Validation("name is required"))
		return
	}

	tag := models.Tag{ID: uuid.NewString(), Name: *req.Name, Color: models.DefaultTagColor}
	if req.Color != nil && *req.Color != "" {
		tag.Color = *req.Color
	}

	db := database.GetDB().WithContext(c.Request.Context())
	if taken, err := tagNameTaken(db, tag.Name, ""); err != nil {
		respondError(c, err)
		return
	} else if taken {
		respondError(c, errTagExists)
		return
	}
	if err := db.Create(&tag).Error; err != nil {
		respondError(c, translateTagError(err))
		return
	}

	tagListCache.Delete(tagListKey)
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag handles PUT /api/tags/:id
func UpdateTag(c *gin.Context) {
	var req TagRequest
	if !bindJSON(c, &req) {
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var tag models.Tag
	if err := db.Where("id = ?", c.Param("id")).First(&tag).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "Tag"))
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			respondError(c, apperr.Validation("name cannot be empty"))
			return
		}
		taken, err := tagNameTaken(db, *req.Name, tag.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			respondError(c, errTagExists)
			return
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	if err := db.Save(&tag).Error; err != nil {
		respondError(c, translateTagError(err))
		return
	}

	tagListCache.Delete(tagListKey)
	c.JSON(http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/:id. Projects keep their other tags.
func DeleteTag(c *gin.Context) {
	id := c.Param("id")
	err := database.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tagging.RemoveTag(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Tag{})
		if res.Error != nil {
			return apperr.Store(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Tag")
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	tagListCache.Delete(tagListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}

func tagNameTaken(db *gorm.DB, name, exceptID string) (bool, error) {
	q := db.Model(&models.Tag{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperr.Store(err)
	}
	return count > 0, nil
}

// translateTagError covers the race where two creates pass the name check
func translateTagError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errTagExists
	}
	return apperr.Store(err)
}
