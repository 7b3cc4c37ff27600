package storage

import (
	"context"

	"github.com/mauzec/tasktracker/internal/core"
)

// TaskStore owns the canonical task collection and assigns task ids.
// Every successful mutating call is durable before it returns: one mutation,
// one write. Implementations are not safe for concurrent use.
//
// When the write fails the backends differ. FileTaskStore keeps the change
// in memory and returns the save error, so Add leaves task.ID set and
// Update/Delete report the in-memory result. BoltTaskStore and
// SQLiteTaskStore roll back: Add leaves task.ID zero and does not use up
// the id, Update and Delete report false.
type TaskStore interface {
	// Add assigns the next id to task (written back into task.ID once the
	// task is stored), stores it and persists.
	Add(ctx context.Context, task *core.Task) error
	// Update replaces the stored task with the same id, keeping its position.
	// It reports false and writes nothing when no task matches.
	Update(ctx context.Context, task *core.Task) (bool, error)
	// Delete removes every task with id and persists even if none matched.
	Delete(ctx context.Context, id int) (bool, error)
	// GetByID returns a copy of the task or a core NotFound error.
	GetByID(ctx context.Context, id int) (*core.Task, error)
	// ListAll returns copies of all tasks in insertion order.
	ListAll(ctx context.Context) ([]*core.Task, error)

	Close() error
}
