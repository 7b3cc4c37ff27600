package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/mauzec/tasktracker/internal/storage/codec"
	"github.com/mauzec/tasktracker/internal/storage/snapshot"
	"go.uber.org/zap"
)

// FileTaskStore keeps tasks in memory and mirrors every mutation to a
// single file by rewriting it in full.
//
// I/O failures never abort: a failed load is logged and the store starts
// empty, a failed save is logged and returned while the in-memory change
// stays in place.
type FileTaskStore struct {
	tasks []*core.Task
	ids   *IDSequence

	path   string
	logger *zap.Logger
}

func NewFileTaskStore(ctx context.Context, path string, logger *zap.Logger) (*FileTaskStore, error) {
	if path == "" {
		return nil, errors.New("storage: required task file path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	st := &FileTaskStore{
		path:   path,
		logger: logger,
	}
	st.load(ctx)
	return st, nil
}

// Path returns the backing file path.
func (st *FileTaskStore) Path() string {
	return st.path
}

func (st *FileTaskStore) Close() error {
	return nil
}

func (st *FileTaskStore) Add(ctx context.Context, task *core.Task) error {
	if task == nil {
		return errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return err
	}

	task.ID = st.ids.NewID()
	st.tasks = append(st.tasks, task.CloneTask())

	return st.save(ctx)
}

func (st *FileTaskStore) Update(ctx context.Context, task *core.Task) (bool, error) {
	if task == nil {
		return false, errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	for i, t := range st.tasks {
		if t.ID == task.ID {
			st.tasks[i] = task.CloneTask()
			return true, st.save(ctx)
		}
	}
	return false, nil
}

func (st *FileTaskStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	kept := st.tasks[:0]
	for _, t := range st.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	removed := len(st.tasks) - len(kept)
	clear(st.tasks[len(kept):])
	st.tasks = kept

	return removed > 0, st.save(ctx)
}

func (st *FileTaskStore) GetByID(ctx context.Context, id int) (*core.Task, error) {
	const op = "storage.FileTaskStore.GetByID"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, t := range st.tasks {
		if t.ID == id {
			return t.CloneTask(), nil
		}
	}
	return nil, core.NewTaskNotFoundError(id, op)
}

func (st *FileTaskStore) ListAll(ctx context.Context) ([]*core.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return core.CloneTasks(st.tasks), nil
}

func (st *FileTaskStore) load(ctx context.Context) {
	data, err := snapshot.Read(ctx, st.path)
	if err != nil {
		st.logger.Error("cant load tasks, starting empty",
			zap.String("path", st.path), zap.Error(err))
	}
	st.tasks = codec.Decode(data)
	st.ids = NewIDSequence(core.MaxID(st.tasks))

	st.logger.Debug("tasks loaded",
		zap.String("path", st.path),
		zap.Int("count", len(st.tasks)),
		zap.Int("next_id", st.ids.Peek()),
	)
}

// save rewrites the whole file. The in-memory state is already changed when
// save runs, so cancellation of ctx does not stop the write.
func (st *FileTaskStore) save(ctx context.Context) error {
	data := codec.Encode(st.tasks)
	if err := snapshot.Write(context.WithoutCancel(ctx), st.path, data); err != nil {
		st.logger.Error("cant save tasks",
			zap.String("path", st.path),
			zap.Int("count", len(st.tasks)),
			zap.Error(err),
		)
		return fmt.Errorf("storage: save tasks: %w", err)
	}
	return nil
}
