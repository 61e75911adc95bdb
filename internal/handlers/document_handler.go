package handlers

import (
	"net/http"
	"strings"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/models"
	"project-crm-api/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRequest is the metadata body of POST and PUT /api/documents.
// The file itself is already in the blob store at StoragePath.
type DocumentRequest struct {
	ProjectID   *string `json:"project_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	MimeType    *string `json:"mime_type"`
	FileSize    *int64  `json:"file_size"`
	StoragePath *string `json:"storage_path"`
}

// CategoryFromMime infers a document category from its MIME type and file name
func CategoryFromMime(mimeType, filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		if strings.Contains(lower, "logo") {
			return "logo"
		}
		return "image"
	case mimeType == "application/pdf":
		return "pdf"
	case strings.Contains(mimeType, "markdown") || strings.HasSuffix(lower, ".md"):
		return "markdown"
	default:
		return "general"
	}
}

// PublicURL joins the storage base URL, bucket and object path. It is empty
// when no base URL is configured.
func PublicURL(storagePath string) string {
	if storageConfig.PublicURL == "" || storagePath == "" {
		return ""
	}
	base := strings.TrimRight(storageConfig.PublicURL, "/")
	path := strings.TrimLeft(storagePath, "/")
	if storageConfig.Bucket != "" {
		return base + "/" + storageConfig.Bucket + "/" + path
	}
	return base + "/" + path
}

func decorateDocuments(db *gorm.DB, docs []models.Document) error {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.ProjectID != nil {
			ids = append(ids, *d.ProjectID)
		}
	}
	byID := map[string]models.ProjectRef{}
	if len(ids) > 0 {
		var refs []models.ProjectRef
		if err := db.Model(&models.Project{}).Select("id", "name").Where("id IN ?", ids).Find(&refs).Error; err != nil {
			return apperr.Store(err)
		}
		for _, r := range refs {
			byID[r.ID] = r
		}
	}
	for i := range docs {
		docs[i].URL = PublicURL(docs[i].StoragePath)
		if docs[i].ProjectID == nil {
			continue
		}
		if r, ok := byID[*docs[i].ProjectID]; ok {
			ref := r
			docs[i].Project = &ref
		}
	}
	return nil
}

// GetDocuments handles GET /api/documents?category=&project_id=&search=
func GetDocuments(c *gin.Context) {
	db := database.GetDB().WithContext(c.Request.Context())
	q := query.New("created_at DESC").
		Eq("category", c.Query("category")).
		Eq("project_id", c.Query("project_id")).
		Search(c.Query("search"), "name", "description")

	docs := []models.Document{}
	if err := q.Apply(db.Model(&models.Document{})).Find(&docs).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	if err := decorateDocuments(db, docs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func loadDocument(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, apperr.FromLookup(err, "Document")
	}
	docs := []models.Document{doc}
	if err := decorateDocuments(db, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// GetDocumentByID handles GET /api/documents/:id
func GetDocumentByID(c *gin.Context) {
	doc, err := loadDocument(database.GetDB().WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CreateDocument handles POST /api/documents
func CreateDocument(c *gin.Context) {
	var req DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Name) || blank(req.StoragePath) {
		respondError(c, apperr.Validation("name and storage_path are required"))
		return
	}

	doc := models.Document{
		ID:          uuid.NewString(),
		Name:        *req.Name,
		StoragePath: *req.StoragePath,
	}
	if req.ProjectID != nil {
		doc.ProjectID = nilIfBlank(*req.ProjectID)
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.MimeType != nil {
		doc.MimeType = *req.MimeType
	}
	if req.FileSize != nil {
		doc.FileSize = *req.FileSize
	}
	if !blank(req.Category) {
		doc.Category = *req.Category
	} else {
		doc.Category = CategoryFromMime(doc.MimeType, doc.Name)
	}

	db := database.GetDB().WithContext(c.Request.Context())
	if err := db.Create(&doc).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	created, err := loadDocument(db, doc.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateDocument handles PUT /api/documents/:id
func UpdateDocument(c *gin.Context) {
	var req DocumentRequest
	if !bindJSON(c, &req) {
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var doc models.Document
	if err := db.Where("id = ?", c.Param("id")).First(&doc).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "Document"))
		return
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			respondError(c, apperr.Validation("name cannot be empty"))
			return
		}
		doc.Name = *req.Name
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Category != nil && *req.Category != "" {
		doc.Category = *req.Category
	}
	if req.ProjectID != nil {
		doc.ProjectID = nilIfBlank(*req.ProjectID)
	}
	if err := db.Save(&doc).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	updated, err := loadDocument(db, doc.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDocument handles DELETE /api/documents/:id. Removing the blob is
// left to the storage service.
func DeleteDocument(c *gin.Context) {
	res := database.GetDB().WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).Delete(&models.Document{})
	if res.Error != nil {
		respondError(c, apperr.Store(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("Document"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
