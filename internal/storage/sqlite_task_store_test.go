package storage_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/mauzec/tasktracker/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTaskStore_FailedWriteRollsBack(t *testing.T) {
	t.Parallel()
	var (
		ctx  = context.Background()
		path = filepath.Join(t.TempDir(), "tasks.sqlite")
	)
	st, err := storage.NewSQLiteTaskStore(ctx, path, nil)
	require.NoError(t, err)
	defer st.Close()

	kept := core.NewTask("kept", "")
	require.NoError(t, st.Add(ctx, kept))
	require.Equal(t, 1, kept.ID)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx, `CREATE TRIGGER reject_insert BEFORE INSERT ON tasks
		BEGIN SELECT RAISE(ABORT, 'insert rejected'); END`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TRIGGER reject_update BEFORE UPDATE ON tasks
		BEGIN SELECT RAISE(ABORT, 'update rejected'); END`)
	require.NoError(t, err)

	rejected := core.NewTask("rejected", "")
	require.Error(t, st.Add(ctx, rejected))
	require.Zero(t, rejected.ID, "no id when the insert was rolled back")

	changed := kept.CloneTask()
	changed.Title = "changed"
	found, err := st.Update(ctx, changed)
	require.Error(t, err)
	require.False(t, found)

	got, err := st.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "kept", got.Title)
	require.Equal(t, []int{1}, listIDs(t, st))

	_, err = db.ExecContext(ctx, `DROP TRIGGER reject_insert`)
	require.NoError(t, err)

	accepted := core.NewTask("accepted", "")
	require.NoError(t, st.Add(ctx, accepted))
	require.Equal(t, 2, accepted.ID, "a rolled back add does not use up its id")
	require.Equal(t, []int{1, 2}, listIDs(t, st))
}
