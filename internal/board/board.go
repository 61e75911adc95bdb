// Package board keeps a local copy of the kanban board and applies
// drag-and-drop moves optimistically. A failed move is rolled back by
// refetching the whole board.
package board

import (
	"context"
	"errors"
	"sync"

	"project-crm-api/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrDragInProgress is returned by StartDrag while another drag is active
	ErrDragInProgress = errors.New("board: a drag is already in progress")
	// ErrTaskNotOnBoard is returned when the dragged task is not in the local board
	ErrTaskNotOnBoard = errors.New("board: task is not on the board")
	// ErrUnknownColumn is delivered by Drop when the target is not a kanban column
	ErrUnknownColumn = errors.New("board: unknown column")
)

// Source is the server side of the board
type Source interface {
	Kanban(ctx context.Context, projectID string) (map[models.TaskStatus][]models.Task, error)
	MoveTask(ctx context.Context, id string, status models.TaskStatus, position int) (*models.Task, error)
}

// DragSession is the task being dragged and the column it left
type DragSession struct {
	TaskID       string
	SourceStatus models.TaskStatus
}

// Board is the client-side board state. It is safe for concurrent use.
type Board struct {
	src       Source
	projectID string
	log       *zap.Logger

	mu      sync.Mutex
	columns map[models.TaskStatus][]models.Task
	drag    *DragSession
}

// New returns an empty board for projectID ("" means all projects); call Refresh to load it
func New(src Source, projectID string, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{
		src:       src,
		projectID: projectID,
		log:       log,
		columns:   emptyColumns(),
	}
}

func emptyColumns() map[models.TaskStatus][]models.Task {
	cols := make(map[models.TaskStatus][]models.Task, len(models.KanbanColumns))
	for _, s := range models.KanbanColumns {
		cols[s] = []models.Task{}
	}
	return cols
}

func isColumn(status models.TaskStatus) bool {
	for _, s := range models.KanbanColumns {
		if s == status {
			return true
		}
	}
	return false
}

// Refresh replaces the local board with the server's
func (b *Board) Refresh(ctx context.Context) error {
	fetched, err := b.src.Kanban(ctx, b.projectID)
	if err != nil {
		return err
	}
	cols := emptyColumns()
	for status, tasks := range fetched {
		if isColumn(status) {
			cols[status] = append([]models.Task{}, tasks...)
		}
	}

	b.mu.Lock()
	b.columns = cols
	b.mu.Unlock()
	return nil
}

// Columns returns a copy of the board; every kanban column is present
func (b *Board) Columns() map[models.TaskStatus][]models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[models.TaskStatus][]models.Task, len(b.columns))
	for status, tasks := range b.columns {
		out[status] = append([]models.Task{}, tasks...)
	}
	return out
}

// Dragging returns the active drag session, if any
func (b *Board) Dragging() (DragSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag == nil {
		return DragSession{}, false
	}
	return *b.drag, true
}

// StartDrag begins dragging taskID. Only one drag is tracked at a time.
func (b *Board) StartDrag(taskID string) (DragSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag != nil {
		return DragSession{}, ErrDragInProgress
	}
	status, _, ok := b.locate(taskID)
	if !ok {
		return DragSession{}, ErrTaskNotOnBoard
	}
	b.drag = &DragSession{TaskID: taskID, SourceStatus: status}
	return *b.drag, nil
}

// EndDrag clears the drag session whether or not a drop happened
func (b *Board) EndDrag() {
	b.mu.Lock()
	b.drag = nil
	b.mu.Unlock()
}

// Drop finishes the active drag on target. The local board changes
// immediately; the move request runs in the background and its result is
// delivered on the returned channel, which is closed afterwards. Dropping
// onto the source column, or with no active drag, does nothing. A target
// outside the kanban columns ends the drag with ErrUnknownColumn and leaves
// the board untouched.
//
// The request is not cancelled with ctx. On failure the board is refetched.
func (b *Board) Drop(ctx context.Context, target models.TaskStatus) <-chan error {
	done := make(chan error, 1)

	b.mu.Lock()
	session := b.drag
	b.drag = nil
	if !isColumn(target) {
		b.mu.Unlock()
		done <- ErrUnknownColumn
		close(done)
		return done
	}
	if session == nil || session.SourceStatus == target {
		b.mu.Unlock()
		close(done)
		return done
	}

	status, idx, ok := b.locate(session.TaskID)
	if !ok {
		b.mu.Unlock()
		done <- ErrTaskNotOnBoard
		close(done)
		return done
	}
	src := b.columns[status]
	task := src[idx]
	b.columns[status] = append(src[:idx:idx], src[idx+1:]...)

	task.Status = target
	b.columns[target] = append(b.columns[target], task)
	position := len(b.columns[target])
	task.Position = position
	b.columns[target][position-1] = task
	b.mu.Unlock()

	moveCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		_, err := b.src.MoveTask(moveCtx, task.ID, target, position)
		if err != nil {
			b.log.Warn("task move failed, reloading board",
				zap.String("task_id", task.ID),
				zap.String("status", string(target)),
				zap.Int("position", position),
				zap.Error(err),
			)
			if rerr := b.Refresh(moveCtx); rerr != nil {
				b.log.Error("board reload failed", zap.Error(rerr))
			}
		}
		done <- err
	}()
	return done
}

// locate finds taskID in the local board. Callers hold mu.
func (b *Board) locate(taskID string) (models.TaskStatus, int, bool) {
	for status, tasks := range b.columns {
		for i, t := range tasks {
			if t.ID == taskID {
				return status, i, true
			}
		}
	}
	return "", 0, false
}
