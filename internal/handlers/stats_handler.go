package handlers

import (
	"net/http"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/database"
	"project-crm-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const recentProjectCount = 5

// Stats is the dashboard summary
type Stats struct {
	TotalProjects  int64                       `json:"totalProjects"`
	TotalClients   int64                       `json:"totalClients"`
	TotalTasks     int64                       `json:"totalTasks"`
	ByStatus       []StatusCount               `json:"byStatus"`
	ByPriority     []PriorityCount             `json:"byPriority"`
	TasksByStatus  map[models.TaskStatus]int64 `json:"tasksByStatus"`
	RecentProjects []models.Project            `json:"recentProjects"`
}

// StatusCount is the number of projects in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PriorityCount is the number of projects with one priority
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

type groupCount struct {
	Name  string
	Total int64
}

// countBy groups rows of model by column, in column order
func countBy(db *gorm.DB, model any, column string) ([]groupCount, error) {
	rows := []groupCount{}
	err := db.Model(model).
		Select(column + " AS name, COUNT(*) AS total").
		Group(column).
		Order(column + " ASC").
		Scan(&rows).Error
	return rows, err
}

func loadStats(db *gorm.DB) (*Stats, error) {
	s := &Stats{TasksByStatus: make(map[models.TaskStatus]int64, len(models.KanbanColumns))}

	if err := db.Model(&models.Project{}).Count(&s.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&s.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Count(&s.TotalTasks).Error; err != nil {
		return nil, err
	}

	statuses, err := countBy(db, &models.Project{}, "status")
	if err != nil {
		return nil, err
	}
	s.ByStatus = make([]StatusCount, 0, len(statuses))
	for _, r := range statuses {
		s.ByStatus = append(s.ByStatus, StatusCount{Status: r.Name, Count: r.Total})
	}

	priorities, err := countBy(db, &models.Project{}, "priority")
	if err != nil {
		return nil, err
	}
	s.ByPriority = make([]PriorityCount, 0, len(priorities))
	for _, r := range priorities {
		s.ByPriority = append(s.ByPriority, PriorityCount{Priority: r.Name, Count: r.Total})
	}

	// only the four board columns are counted
	for _, status := range models.KanbanColumns {
		s.TasksByStatus[status] = 0
	}
	tasks, err := countBy(db, &models.Task{}, "status")
	if err != nil {
		return nil, err
	}
	for _, r := range tasks {
		if _, ok := s.TasksByStatus[models.TaskStatus(r.Name)]; ok {
			s.TasksByStatus[models.TaskStatus(r.Name)] = r.Total
		}
	}

	s.RecentProjects = []models.Project{}
	if err := db.Order("updated_at DESC").Limit(recentProjectCount).Find(&s.RecentProjects).Error; err != nil {
		return nil, err
	}
	for i := range s.RecentProjects {
		normalizeProject(&s.RecentProjects[i])
	}
	return s, nil
}

// GetStats handles GET /api/stats
func GetStats(c *gin.Context) {
	stats, err := loadStats(database.GetDB().WithContext(c.Request.Context()))
	if err != nil {
		respondError(c, apperr.Store(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}
