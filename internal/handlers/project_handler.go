package handlers

import (
	"net/http"
	"strings"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/logging"
	"project-crm-api/internal/models"
	"project-crm-api/internal/query"
	"project-crm-api/internal/tagging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRequest is the body of POST and PUT /api/projects. Nil fields are
// left unchanged on update. Tags, when present, replaces the whole tag set.
type ProjectRequest struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Status        *models.ProjectStatus `json:"status"`
	Priority      *models.Priority      `json:"priority"`
	Category      *string               `json:"category"`
	ClientID      *string               `json:"client_id"`
	GithubURL     *string               `json:"github_url"`
	DemoURL       *string               `json:"demo_url"`
	TechStack     *[]string             `json:"tech_stack"`
	Notes         *string               `json:"notes"`
	StartDate     *string               `json:"start_date"`
	TargetDate    *string               `json:"target_date"`
	CompletedDate *string               `json:"completed_date"`
	Tags          *[]string             `json:"tags"`
}

// MilestoneRequest is the body of POST /api/projects/:id/milestones
type MilestoneRequest struct {
	Title   string  `json:"title"`
	DueDate *string `json:"due_date"`
}

// MilestoneToggleRequest is the body of PATCH /api/projects/:id/milestones/:milestoneId
type MilestoneToggleRequest struct {
	Completed *bool `json:"completed"`
}

func (r *ProjectRequest) apply(p *models.Project) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.Priority != nil {
		p.Priority = *r.Priority
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.ClientID != nil {
		p.ClientID = nilIfBlank(*r.ClientID)
	}
	if r.GithubURL != nil {
		p.GithubURL = *r.GithubURL
	}
	if r.DemoURL != nil {
		p.DemoURL = *r.DemoURL
	}
	if r.TechStack != nil {
		p.TechStack = orEmpty(*r.TechStack)
	}
	if r.Notes != nil {
		p.Notes = *r.Notes
	}
	if r.StartDate != nil {
		p.StartDate = nilIfBlank(*r.StartDate)
	}
	if r.TargetDate != nil {
		p.TargetDate = nilIfBlank(*r.TargetDate)
	}
	if r.CompletedDate != nil {
		p.CompletedDate = nilIfBlank(*r.CompletedDate)
	}
}

func nilIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func preloadMilestones(db *gorm.DB) *gorm.DB {
	return db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func normalizeProject(p *models.Project) {
	p.TechStack = orEmpty(p.TechStack)
	if p.Milestones == nil {
		p.Milestones = []models.Milestone{}
	}
	if p.Tags == nil {
		p.Tags = []models.Tag{}
	}
}

// loadProject reads a project with its milestones and flattened tags
func loadProject(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := preloadMilestones(db).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, apperr.FromLookup(err, "Project")
	}
	tags, err := tagging.ForProject(db, id)
	if err != nil {
		return nil, err
	}
	project.Tags = tags
	normalizeProject(&project)
	return &project, nil
}

// GetProjects handles GET /api/projects?status=&priority=&category=&client_id=&search=
func GetProjects(c *gin.Context) {
	db := database.GetDB().WithContext(c.Request.Context())

	q := query.New("updated_at DESC").
		Eq("status", c.Query("status")).
		Eq("priority", c.Query("priority")).
		Eq("category", c.Query("category")).
		Eq("client_id", c.Query("client_id")).
		Search(c.Query("search"), "name", "description")

	projects := []models.Project{}
	if err := q.Apply(preloadMilestones(db).Model(&models.Project{})).Find(&projects).Error; err != nil {
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
	c.JSON(http.StatusOK, projects)
}

// GetProjectByID handles GET /api/projects/:id
func GetProjectByID(c *gin.Context) {
	project, err := loadProject(database.GetDB().WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject handles POST /api/projects. The project row and its tag
// links are written in one transaction.
func CreateProject(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(c, apperr.Validation("name is required"))
		return
	}

	project := models.Project{
		ID:        uuid.NewString(),
		Status:    models.ProjectIdea,
		Priority:  models.PriorityMedium,
		TechStack: []string{},
	}
	req.apply(&project)

	db := database.GetDB().WithContext(c.Request.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return apperr.Store(err)
		}
		if req.Tags != nil {
			return tagging.Replace(tx, project.ID, *req.Tags)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := loadProject(db, project.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.L().Info("project created", zap.String("project_id", created.ID), zap.Int("tags", len(created.Tags)))
	c.JSON(http.StatusCreated, created)
}

// UpdateProject handles PUT /api/projects/:id
func UpdateProject(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(c, apperr.Validation("name cannot be empty"))
		return
	}

	id := c.Param("id")
	db := database.GetDB().WithContext(c.Request.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Project
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			return apperr.FromLookup(err, "Project")
		}
		req.apply(&existing)
		if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
			return apperr.Store(err)
		}
		if req.Tags != nil {
			return tagging.Replace(tx, id, *req.Tags)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := loadProject(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProject handles DELETE /api/projects/:id. Tag links and milestones
// go with the project; tasks and documents are unlinked.
func DeleteProject(c *gin.Context) {
	id := c.Param("id")
	err := database.GetDB().WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tagging.RemoveProject(tx, id); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Milestone{}).Error; err != nil {
			return apperr.Store(err)
		}
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return apperr.Store(err)
		}
		if err := tx.Model(&models.Document{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return apperr.Store(err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return apperr.Store(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Project")
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddMilestone handles POST /api/projects/:id/milestones
func AddMilestone(c *gin.Context) {
	var req MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(c, apperr.Validation("title is required"))
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	projectID := c.Param("id")
	var count int64
	if err := db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	if count == 0 {
		respondError(c, apperr.NotFound("Project"))
		return
	}

	milestone := models.Milestone{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     req.Title,
	}
	if req.DueDate != nil {
		milestone.DueDate = nilIfBlank(*req.DueDate)
	}
	if err := db.Create(&milestone).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

// UpdateMilestone handles PATCH /api/projects/:id/milestones/:milestoneId
func UpdateMilestone(c *gin.Context) {
	var req MilestoneToggleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Completed == nil {
		respondError(c, apperr.Validation("completed is required"))
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var milestone models.Milestone
	err := db.Where("id = ? AND project_id = ?", c.Param("milestoneId"), c.Param("id")).First(&milestone).Error
	if err != nil {
		respondError(c, apperr.FromLookup(err, "Milestone"))
		return
	}
	if err := db.Model(&milestone).Update("completed", *req.Completed).Error; err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	milestone.Completed = *req.Completed
	c.JSON(http.StatusOK, milestone)
}

// DeleteMilestone handles DELETE /api/projects/:id/milestones/:milestoneId
func DeleteMilestone(c *gin.Context) {
	res := database.GetDB().WithContext(c.Request.Context()).
		Where("id = ? AND project_id = ?", c.Param("milestoneId"), c.Param("id")).
		Delete(&models.Milestone{})
	if res.Error != nil {
		respondError(c, apperr.Store(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("Milestone"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted"})
}
