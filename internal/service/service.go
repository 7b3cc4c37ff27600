package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/mauzec/tasktracker/internal/storage"
	"go.uber.org/zap"
)

// TaskService applies the business rules on top of a storage.TaskStore.
//
// Not-found is reported as a false result, never as an error, for the
// mutating operations. An error with core.ErrorCodeStorage means the
// operation took effect in memory but the durable write failed; callers
// should show it as a warning. A write the store rolled back is an
// ErrorCodeInternal error with a false or nil result.
type TaskService struct {
	store  storage.TaskStore
	logger *zap.Logger
}

func NewTaskService(store storage.TaskStore, logger *zap.Logger) (*TaskService, error) {
	const op = "service.NewTaskService"
	if store == nil {
		return nil, core.NewTaskInternalError("task store required", nil, op)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		store:  store,
		logger: logger,
	}, nil
}

// AddTask creates a NEW task. The title must not be blank.
func (ts *TaskService) AddTask(ctx context.Context, title, description string) (*core.Task, error) {
	const op = "service.TaskService.AddTask"

	if strings.TrimSpace(title) == "" {
		return nil, core.NewTaskValidationError("task title cannot be empty", nil, op)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewTaskInternalError("ctx error", err, op)
	}

	t := core.NewTask(title, description)
	if err := ts.store.Add(ctx, t); err != nil {
		if t.ID == 0 {
			return nil, ts.writeFailure(op, 0, false, err)
		}
		return t.CloneTask(), ts.writeFailure(op, t.ID, true, err)
	}

	ts.logger.Debug("task added", zap.Int("id", t.ID))
	return t.CloneTask(), nil
}

// DeleteTask reports whether a task with id existed and was removed.
func (ts *TaskService) DeleteTask(ctx context.Context, id int) (bool, error) {
	const op = "service.TaskService.DeleteTask"

	if _, found, err := ts.lookup(ctx, id, op); err != nil || !found {
		return false, err
	}

	removed, err := ts.store.Delete(ctx, id)
	if err != nil {
		return removed, ts.writeFailure(op, id, removed, err)
	}
	ts.logger.Debug("task deleted", zap.Int("id", id))
	return removed, nil
}

// GetTaskByID returns the task or a core NotFound error.
func (ts *TaskService) GetTaskByID(ctx context.Context, id int) (*core.Task, error) {
	const op = "service.TaskService.GetTaskByID"

	t, err := ts.store.GetByID(ctx, id)
	if err != nil {
		return nil, tryAsAppError(err, op)
	}
	return t, nil
}

// GetAllTasks returns all tasks in insertion order.
func (ts *TaskService) GetAllTasks(ctx context.Context) ([]*core.Task, error) {
	const op = "service.TaskService.GetAllTasks"

	res, err := ts.store.ListAll(ctx)
	if err != nil {
		return nil, tryAsAppError(err, op)
	}
	return res, nil
}

// UpdateTaskDetails changes title and description. A blank value keeps the
// current one. It returns true whenever the task exists, even if nothing
// changed.
func (ts *TaskService) UpdateTaskDetails(ctx context.Context, id int, newTitle, newDescription string) (bool, error) {
	const op = "service.TaskService.UpdateTaskDetails"

	t, found, err := ts.lookup(ctx, id, op)
	if err != nil || !found {
		return false, err
	}

	if strings.TrimSpace(newTitle) != "" {
		t.Title = newTitle
	}
	if strings.TrimSpace(newDescription) != "" {
		t.Description = newDescription
	}
	return ts.update(ctx, t, op)
}

// MarkTaskAsDone sets the status to DONE whatever it was before.
func (ts *TaskService) MarkTaskAsDone(ctx context.Context, id int) (bool, error) {
	const op = "service.TaskService.MarkTaskAsDone"

	t, found, err := ts.lookup(ctx, id, op)
	if err != nil || !found {
		return false, err
	}

	t.Status = core.TaskStatusDone
	return ts.update(ctx, t, op)
}

// SearchTasks matches text case-insensitively against title or description.
// Blank text matches every task.
func (ts *TaskService) SearchTasks(ctx context.Context, text string) ([]*core.Task, error) {
	const op = "service.TaskService.SearchTasks"

	all, err := ts.store.ListAll(ctx)
	if err != nil {
		return nil, tryAsAppError(err, op)
	}
	if strings.TrimSpace(text) == "" {
		return all, nil
	}

	needle := strings.ToLower(text)
	res := make([]*core.Task, 0, len(all))
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			res = append(res, t)
		}
	}
	return res, nil
}

// GetTasksSortedByStatus returns all tasks ordered NEW, IN_PROGRESS, DONE.
// Tasks with equal status keep their listing order.
func (ts *TaskService) GetTasksSortedByStatus(ctx context.Context) ([]*core.Task, error) {
	const op = "service.TaskService.GetTasksSortedByStatus"

	res, err := ts.store.ListAll(ctx)
	if err != nil {
		return nil, tryAsAppError(err, op)
	}
	core.SortTasksByStatus(res)
	return res, nil
}

// lookup fetches a task for a mutating operation. A missing task is
// reported as found == false with a nil error.
func (ts *TaskService) lookup(ctx context.Context, id int, op string) (*core.Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, core.NewTaskInternalError("ctx error", err, op)
	}
	t, err := ts.store.GetByID(ctx, id)
	if core.HasCode(err, core.ErrorCodeNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, tryAsAppError(err, op)
	}
	return t, true, nil
}

func (ts *TaskService) update(ctx context.Context, t *core.Task, op string) (bool, error) {
	found, err := ts.store.Update(ctx, t)
	if err != nil {
		return found, ts.writeFailure(op, t.ID, found, err)
	}
	ts.logger.Debug("task updated", zap.Int("id", t.ID), zap.Bool("found", found))
	return found, nil
}

// writeFailure wraps a failed store write. applied tells whether the store
// kept the change anyway (the file store does): then the error is a
// storage warning next to a normal result. Otherwise nothing changed and
// the operation failed.
func (ts *TaskService) writeFailure(op string, id int, applied bool, err error) error {
	if !applied {
		ts.logger.Error("task change rolled back",
			zap.String("op", op), zap.Int("id", id), zap.Error(err))
		b := core.NewAppErrorBuilder(core.ErrorCodeInternal).
			Message("changes could not be saved").
			Err(err).
			Oper(op).
			SafeToShow(true)
		if id > 0 {
			b.Meta("task_id", strconv.Itoa(id))
		}
		return b.Build()
	}
	ts.logger.Warn("task change not persisted",
		zap.String("op", op), zap.Int("id", id), zap.Error(err))
	return core.NewTaskStorageError("changes could not be saved", err, op).
		WithMeta("task_id", strconv.Itoa(id))
}

func tryAsAppError(err error, op string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := core.AsAppError(err); ok {
		return appErr.WithOper(op)
	}
	return core.NewTaskInternalError("unexpected error", err, op)
}
