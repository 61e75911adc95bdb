package kanban

import (
	"context"
	"testing"
	"time"

	"project-crm-api/internal/apperr"
	"project-crm-api/internal/models"
	"project-crm-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupDB(t)
	return NewEngine(db, nil), db
}

func mustCreate(t *testing.T, e *Engine, title string, status models.TaskStatus) *models.Task {
	t.Helper()
	task, err := e.CreateTask(context.Background(), CreateTaskInput{Title: title, Status: status})
	require.NoError(t, err)
	return task
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func intPtr(i int) *int { return &i }

func TestCreateTask_PositionsIncreaseByOnePerColumn(t *testing.T) {
	e, _ := newEngine(t)

	for i, title := range []string{"A", "B", "C", "D"} {
		task := mustCreate(t, e, title, models.StatusBacklog)
		require.Equal(t, i+1, task.Position)
	}

	// other columns are numbered independently
	first := mustCreate(t, e, "E", models.StatusInProgress)
	require.Equal(t, 1, first.Position)
}

func TestCreateTask_Defaults(t *testing.T) {
	e, _ := newEngine(t)

	task, err := e.CreateTask(context.Background(), CreateTaskInput{Title: "Write brief"})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, models.StatusBacklog, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Nil(t, task.ProjectID)
	require.Nil(t, task.Project)
}

func TestCreateTask_TitleRequired(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.CreateTask(context.Background(), CreateTaskInput{Title: "   "})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateTask_JoinsProjectProjection(t *testing.T) {
	e, db := newEngine(t)
	require.NoError(t, db.Create(&models.Project{ID: "p1", Name: "Portal"}).Error)

	pid := "p1"
	task, err := e.CreateTask(context.Background(), CreateTaskInput{Title: "Wireframes", ProjectID: &pid})
	require.NoError(t, err)
	require.NotNil(t, task.Project)
	require.Equal(t, models.ProjectRef{ID: "p1", Name: "Portal"}, *task.Project)
}

func TestCreateTask_PositionFollowsMaxAfterMoves(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	a := mustCreate(t, e, "A", models.StatusBacklog)
	_, err := e.MoveTask(ctx, a.ID, models.StatusBacklog, intPtr(10))
	require.NoError(t, err)

	b := mustCreate(t, e, "B", models.StatusBacklog)
	require.Equal(t, 11, b.Position)
}

func TestBoard_AlwaysHasFourColumns(t *testing.T) {
	e, _ := newEngine(t)

	board, err := e.Board(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, board, 4)
	for _, s := range models.KanbanColumns {
		col, ok := board[s]
		require.True(t, ok, string(s))
		require.NotNil(t, col)
		require.Empty(t, col)
	}
}

func TestBoard_MoveScenario(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	a := mustCreate(t, e, "A", models.StatusBacklog)
	b := mustCreate(t, e, "B", models.StatusBacklog)
	c := mustCreate(t, e, "C", models.StatusBacklog)
	require.Equal(t, []int{1, 2, 3}, []int{a.Position, b.Position, c.Position})

	moved, err := e.MoveTask(ctx, b.ID, models.StatusDone, intPtr(1))
	require.NoError(t, err)
	require.Equal(t, models.StatusDone, moved.Status)
	require.Equal(t, 1, moved.Position)

	board, err := e.Board(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, titles(board[models.StatusBacklog]))
	require.Equal(t, []string{"B"}, titles(board[models.StatusDone]))
	require.Empty(t, board[models.StatusInProgress])
	require.Empty(t, board[models.StatusBlocked])
}

func TestBoard_OrdersByPositionThenNewestFirst(t *testing.T) {
	e, db := newEngine(t)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	rows := []models.Task{
		{ID: "t1", Title: "old-2", Status: models.StatusBlocked, Priority: models.PriorityLow, Position: 2, CreatedAt: base},
		{ID: "t2", Title: "old-1", Status: models.StatusBlocked, Priority: models.PriorityLow, Position: 1, CreatedAt: base},
		{ID: "t3", Title: "new-1", Status: models.StatusBlocked, Priority: models.PriorityLow, Position: 1, CreatedAt: base.Add(time.Hour)},
		{ID: "t4", Title: "todo", Status: models.StatusBacklog, Priority: models.PriorityLow, Position: 1, CreatedAt: base},
	}
	require.NoError(t, db.Create(&rows).Error)

	board, err := e.Board(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"new-1", "old-1", "old-2"}, titles(board[models.StatusBlocked]))
	require.Equal(t, []string{"todo"}, titles(board[models.StatusBacklog]))
}

func TestBoard_FiltersByProject(t *testing.T) {
	e, db := newEngine(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Project{ID: "p1", Name: "Portal"}).Error)

	pid := "p1"
	_, err := e.CreateTask(ctx, CreateTaskInput{Title: "in project", ProjectID: &pid})
	require.NoError(t, err)
	mustCreate(t, e, "loose", models.StatusBacklog)

	board, err := e.Board(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"in project"}, titles(board[models.StatusBacklog]))
	require.Equal(t, "Portal", board[models.StatusBacklog][0].Project.Name)
}

func TestBoard_UnknownStatusIsListedButNotBoarded(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	odd := mustCreate(t, e, "odd", models.TaskStatus("review"))
	require.Equal(t, models.TaskStatus("review"), odd.Status)

	all, err := e.ListTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	board, err := e.Board(ctx, "")
	require.NoError(t, err)
	for _, s := range models.KanbanColumns {
		require.Empty(t, board[s])
	}
}

func TestListTasks_StatusFilter(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	mustCreate(t, e, "A", models.StatusBacklog)
	mustCreate(t, e, "B", models.StatusDone)

	got, err := e.ListTasks(ctx, TaskFilter{Status: string(models.StatusDone)})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, titles(got))

	got, err = e.ListTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestMoveTask_DuplicatePositionsAreAccepted(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	a := mustCreate(t, e, "A", models.StatusBacklog)
	b := mustCreate(t, e, "B", models.StatusBacklog)
	_, err := e.MoveTask(ctx, a.ID, models.StatusDone, intPtr(1))
	require.NoError(t, err)
	_, err = e.MoveTask(ctx, b.ID, models.StatusDone, intPtr(1))
	require.NoError(t, err)

	board, err := e.Board(ctx, "")
	require.NoError(t, err)
	require.Len(t, board[models.StatusDone], 2)
	for _, task := range board[models.StatusDone] {
		require.Equal(t, 1, task.Position)
	}
}

func TestMoveTask_NilPositionAppends(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	mustCreate(t, e, "A", models.StatusDone)
	mustCreate(t, e, "B", models.StatusDone)
	c := mustCreate(t, e, "C", models.StatusBacklog)

	moved, err := e.MoveTask(ctx, c.ID, models.StatusDone, nil)
	require.NoError(t, err)
	require.Equal(t, 3, moved.Position)
}

func TestMoveTask_NotFound(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.MoveTask(context.Background(), "missing", models.StatusDone, intPtr(1))
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.Equal(t, "Task not found", err.Error())
}

func TestUpdateTask_PartialFields(t *testing.T) {
	e, db := newEngine(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Project{ID: "p1", Name: "Portal"}).Error)

	task := mustCreate(t, e, "Draft", models.StatusBacklog)

	title := "Final"
	pid := "p1"
	prio := models.PriorityUrgent
	updated, err := e.UpdateTask(ctx, task.ID, TaskPatch{Title: &title, ProjectID: &pid, Priority: &prio})
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Title)
	require.Equal(t, models.PriorityUrgent, updated.Priority)
	require.Equal(t, models.StatusBacklog, updated.Status)
	require.Equal(t, 1, updated.Position)
	require.Equal(t, "Portal", updated.Project.Name)

	none := ""
	updated, err = e.UpdateTask(ctx, task.ID, TaskPatch{ProjectID: &none})
	require.NoError(t, err)
	require.Nil(t, updated.ProjectID)
	require.Nil(t, updated.Project)
}

func TestUpdateTask_NotFound(t *testing.T) {
	e, _ := newEngine(t)

	title := "x"
	_, err := e.UpdateTask(context.Background(), "missing", TaskPatch{Title: &title})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteTask(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	task := mustCreate(t, e, "A", models.StatusBacklog)
	require.NoError(t, e.DeleteTask(ctx, task.ID))

	_, err := e.GetTask(ctx, task.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = e.DeleteTask(ctx, task.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGroup_PreservesInputOrder(t *testing.T) {
	board := Group([]models.Task{
		{Title: "x", Status: models.StatusDone},
		{Title: "y", Status: models.StatusBacklog},
		{Title: "z", Status: models.StatusDone},
	})
	require.Equal(t, []string{"x", "z"}, titles(board[models.StatusDone]))
	require.Equal(t, []string{"y"}, titles(board[models.StatusBacklog]))
}
