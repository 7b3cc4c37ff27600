package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mauzec/tasktracker/internal/core"
	"go.uber.org/zap"
)

// SQLiteTaskStore keeps tasks in a single sqlite table. Every mutation is
// one autocommitted statement.
type SQLiteTaskStore struct {
	db  *sql.DB
	ids *IDSequence

	logger *zap.Logger
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'NEW'
	);
`

func NewSQLiteTaskStore(ctx context.Context, path string, logger *zap.Logger) (*SQLiteTaskStore, error) {
	if path == "" {
		return nil, errors.New("storage: required sqlite path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cant init schema: %w", err)
	}

	var maxID int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) FROM tasks`,
	).Scan(&maxID); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cant read max id: %w", err)
	}

	logger.Debug("sqlite store opened",
		zap.String("path", path), zap.Int("next_id", maxID+1))

	return &SQLiteTaskStore{
		db:     db,
		ids:    NewIDSequence(maxID),
		logger: logger,
	}, nil
}

func (s *SQLiteTaskStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteTaskStore) Add(ctx context.Context, task *core.Task) error {
	if s.db == nil {
		return errors.New("storage: sqlite not init")
	} else if task == nil {
		return errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return err
	}

	id := s.ids.Peek()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status) VALUES (?, ?, ?, ?)`,
		id, task.Title, task.Description, task.Status.String(),
	); err != nil {
		return s.logged("add", id, err)
	}
	task.ID = s.ids.NewID()
	return nil
}

func (s *SQLiteTaskStore) Update(ctx context.Context, task *core.Task) (bool, error) {
	if s.db == nil {
		return false, errors.New("storage: sqlite not init")
	} else if task == nil {
		return false, errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ? WHERE id = ?`,
		task.Title, task.Description, task.Status.String(), task.ID,
	)
	if err != nil {
		return false, s.logged("update", task.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.logged("update", task.ID, err)
	}
	return n > 0, nil
}

func (s *SQLiteTaskStore) Delete(ctx context.Context, id int) (bool, error) {
	if s.db == nil {
		return false, errors.New("storage: sqlite not init")
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, s.logged("delete", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.logged("delete", id, err)
	}
	return n > 0, nil
}

func (s *SQLiteTaskStore) GetByID(ctx context.Context, id int) (*core.Task, error) {
	const op = "storage.SQLiteTaskStore.GetByID"
	if s.db == nil {
		return nil, errors.New("storage: sqlite not init")
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, status FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewTaskNotFoundError(id, op)
	} else if err != nil {
		return nil, fmt.Errorf("storage: sqlite get task %d: %w", id, err)
	}
	return t, nil
}

func (s *SQLiteTaskStore) ListAll(ctx context.Context) ([]*core.Task, error) {
	if s.db == nil {
		return nil, errors.New("storage: sqlite not init")
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, status FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: sqlite list tasks: %w", err)
	}
	defer rows.Close()

	ts := make([]*core.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: sqlite scan task: %w", err)
		}
		ts = append(ts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: sqlite list tasks: %w", err)
	}
	return ts, nil
}

func (s *SQLiteTaskStore) logged(action string, id int, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Error("sqlite write failed",
		zap.String("action", action), zap.Int("id", id), zap.Error(err))
	return fmt.Errorf("storage: sqlite %s: %w", action, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*core.Task, error) {
	var (
		t      core.Task
		status string
	)
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &status); err != nil {
		return nil, err
	}
	// unknown names fall back to NEW, same as the file codec
	t.Status, _ = core.ParseTaskStatus(status)
	return &t, nil
}
