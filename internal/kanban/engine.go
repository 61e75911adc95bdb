// Package kanban orders tasks inside status columns and moves them between
// columns.
//
// Positions are plain integers scoped to one status. Moves take the
// caller's position verbatim and never renumber siblings, so a column may
// hold duplicate positions; display order falls back to created_at DESC.
package kanban

import (
	"context"
	"database/sql"
	"strings"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/metrics"
	"project-crm-api/internal/models"
	"project-crm-api/internal/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Display order inside a column
var displayOrder = []string{"position ASC", "created_at DESC"}

// Board maps every kanban column to its ordered tasks
type Board map[models.TaskStatus][]models.Task

// CreateTaskInput carries the fields of a new task. Empty status and
// priority fall back to backlog and medium.
type CreateTaskInput struct {
	ProjectID   *string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.Priority
	DueDate     *string
}

// TaskPatch is a partial update; nil fields are left unchanged. An empty
// ProjectID or DueDate clears the column.
type TaskPatch struct {
	ProjectID   *string
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.Priority
	DueDate     *string
	Position    *int
}

// TaskFilter narrows ListTasks; empty fields do not constrain
type TaskFilter struct {
	ProjectID string
	Status    string
}

// Engine is the task ordering service
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEngine returns an engine over db
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// CreateTask appends a task to the end of its status column
func (e *Engine) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}

	status := in.Status
	if status == "" {
		status = models.StatusBacklog
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		ID:          uuid.NewString(),
		ProjectID:   blankToNil(in.ProjectID),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     blankToNil(in.DueDate),
	}

	// read-max-then-insert in one transaction; SQLite serializes writers
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextPosition(tx, status)
		if err != nil {
			return err
		}
		task.Position = next
		return tx.Create(&task).Error
	})
	if err != nil {
		e.log.Error("failed to create task", zap.String("status", string(status)), zap.Error(err))
		return nil, apperr.Store(err)
	}

	metrics.IncTaskCreated(string(status))
	e.log.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("status", string(status)),
		zap.Int("position", task.Position),
	)

	if err := e.joinProjects(ctx, []*models.Task{&task}); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask loads one task with its project projection
func (e *Engine) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := e.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, apperr.FromLookup(err, "Task")
	}
	if err := e.joinProjects(ctx, []*models.Task{&task}); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns tasks in display order
func (e *Engine) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := query.New(displayOrder...).
		Eq("project_id", f.ProjectID).
		Eq("status", f.Status)

	tasks := []models.Task{}
	if err := q.Apply(e.db.WithContext(ctx).Model(&models.Task{})).Find(&tasks).Error; err != nil {
		return nil, apperr.Store(err)
	}

	ptrs := make([]*models.Task, len(tasks))
	for i := range tasks {
		ptrs[i] = &tasks[i]
	}
	if err := e.joinProjects(ctx, ptrs); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Board groups tasks, optionally of one project, into the four kanban
// columns. Every column is present even when empty; tasks whose status is
// not a column are left out.
func (e *Engine) Board(ctx context.Context, projectID string) (Board, error) {
	tasks, err := e.ListTasks(ctx, TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return Group(tasks), nil
}

// Group partitions tasks, already in display order, into a Board
func Group(tasks []models.Task) Board {
	board := make(Board, len(models.KanbanColumns))
	for _, s := range models.KanbanColumns {
		board[s] = []models.Task{}
	}
	for _, t := range tasks {
		if col, ok := board[t.Status]; ok {
			board[t.Status] = append(col, t)
		}
	}
	return board
}

// UpdateTask applies a partial update
func (e *Engine) UpdateTask(ctx context.Context, id string, p TaskPatch) (*models.Task, error) {
	updates := map[string]any{}
	if p.ProjectID != nil {
		updates["project_id"] = blankToNil(p.ProjectID)
	}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Priority != nil {
		updates["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		updates["due_date"] = blankToNil(p.DueDate)
	}
	if p.Position != nil {
		updates["position"] = *p.Position
	}
	return e.update(ctx, id, updates)
}

// MoveTask sets a task's status and position. A nil position appends the
// task to the end of the target column.
func (e *Engine) MoveTask(ctx context.Context, id string, status models.TaskStatus, position *int) (*models.Task, error) {
	if status == "" {
		return nil, apperr.Validation("status is required")
	}

	var task *models.Task
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			return apperr.FromLookup(err, "Task")
		}

		pos := 0
		if position != nil {
			pos = *position
		} else {
			next, err := nextPosition(tx, status)
			if err != nil {
				return err
			}
			pos = next
		}

		if err := tx.Model(&existing).Updates(map[string]any{"status": status, "position": pos}).Error; err != nil {
			return apperr.Store(err)
		}
		existing.Status = status
		existing.Position = pos
		task = &existing
		return nil
	})
	if err != nil {
		return nil, apperr.Store(err)
	}

	metrics.IncTaskMove(string(status))
	e.log.Info("task moved",
		zap.String("task_id", id),
		zap.String("status", string(status)),
		zap.Int("position", task.Position),
	)

	if err := e.joinProjects(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	res := e.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return apperr.Store(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Task")
	}
	e.log.Info("task deleted", zap.String("task_id", id))
	return nil
}

func (e *Engine) update(ctx context.Context, id string, updates map[string]any) (*models.Task, error) {
	var task models.Task
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return apperr.FromLookup(err, "Task")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return apperr.Store(err)
		}
		return tx.Where("id = ?", id).First(&task).Error
	})
	if err != nil {
		return nil, apperr.Store(err)
	}
	if err := e.joinProjects(ctx, []*models.Task{&task}); err != nil {
		return nil, err
	}
	return &task, nil
}

// nextPosition is one past the highest position in the status column, or 1
func nextPosition(tx *gorm.DB, status models.TaskStatus) (int, error) {
	var maxPos sql.NullInt64
	row := tx.Model(&models.Task{}).
		Where("status = ?", status).
		Select("MAX(position)").
		Row()
	if err := row.Scan(&maxPos); err != nil {
		return 0, apperr.Store(err)
	}
	if !maxPos.Valid {
		return 1, nil
	}
	return int(maxPos.Int64) + 1, nil
}

// joinProjects attaches the {id, name} projection of each task's project
func (e *Engine) joinProjects(ctx context.Context, tasks []*models.Task) error {
	ids := make([]string, 0, len(tasks))
	seen := map[string]struct{}{}
	for _, t := range tasks {
		if t.ProjectID == nil {
			continue
		}
		if _, ok := seen[*t.ProjectID]; ok {
			continue
		}
		seen[*t.ProjectID] = struct{}{}
		ids = append(ids, *t.ProjectID)
	}
	if len(ids) == 0 {
		return nil
	}

	var refs []models.ProjectRef
	err := e.db.WithContext(ctx).Model(&models.Project{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&refs).Error
	if err != nil {
		return apperr.Store(err)
	}

	byID := make(map[string]models.ProjectRef, len(refs))
	for _, r := range refs {
		byID[r.ID] = r
	}
	for _, t := range tasks {
		if t.ProjectID == nil {
			continue
		}
		if r, ok := byID[*t.ProjectID]; ok {
			ref := r
			t.Project = &ref
		}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
