package handlers

import (
	"net/http"
	"strings"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/models"
	"project-crm-api/internal/query"
	"project-crm-api/internal/tagging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRequest is the body of POST and PUT /api/clients
type ClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Notes   *string `json:"notes"`
}

func (r *ClientRequest) apply(cl *models.Client) {
	if r.Name != nil {
		cl.Name = *r.Name
	}
	if r.Email != nil {
		cl.Email = *r.Email
	}
	if r.Phone != nil {
		cl.Phone = *r.Phone
	}
	if r.Company != nil {
		cl.Company = *r.Company
	}
	if r.Notes != nil {
		cl.Notes = *r.Notes
	}
}

// GetClients handles GET /api/clients?search=
func GetClients(c *gin.Context) {
	q := query.New("name ASC").
		Search(c.Query("search"), "name", "email", "company")

	clients := []models.Client{}
	if err := q.Apply(database.GetDB().WithContext(c.Request.Context()).Model(&models.Client{})).Find(&clients).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles GET /api/clients/:id, including the client's projects
func GetClientByID(c *gin.Context) {
	db := database.GetDB().WithContext(c.Request.Context())
	var client models.Client
	if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "Client"))
		return
	}

	projects := []models.Project{}
	if err := preloadMilestones(db).Where("client_id = ?", client.ID).Order("updated_at DESC").Find(&projects).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	if err := tagging.Attach(db, projects); err != nil {
		respondError(c, err)
		return
	}
	for i := range projects {
		normalizeProject(&projects[i])
	}
	client.Projects = projects

	c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /api/clients
func CreateClient(c *gin.Context) {
	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(c, apperr.Validation("name is required"))
		return
	}

	client := models.Client{ID: uuid.NewString()}
	req.apply(&client)
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PUT /api/clients/:id
func UpdateClient(c *gin.Context) {
	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(c, apperr.Validation("name cannot be empty"))
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var client models.Client
	if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
		respondError(c, apperr.FromLookup(err, "Client"))
		return
	}
	req.apply(&client)
	if err := db.Save(&client).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id; the client's projects are unlinked
func DeleteClient(c *gin.Context) {
	id := c.Param("id")
	err := database.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("client_id = ?", id).Update("client_id", nil).Error; err != nil {
			return apperr.Store(err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Client{})
		if res.Error != nil {
			return apperr.Store(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Client")
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
