package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mauzec/tasktracker/internal/storage/snapshot"
	"github.com/stretchr/testify/require"
)

func TestReadMissSnapshot(t *testing.T) {
	t.Parallel()
	var (
		ctx  = context.Background()
		path = filepath.Join(t.TempDir(), "tasks.json")
	)
	// if file doesnt exist, should return nil,nil
	data, err := snapshot.Read(ctx, path)
	require.NoErrorf(t, err, "snapshot read: %v", err)
	require.Nilf(t, data, "expected nil data, got %q", data)
}

func TestWriteReadSnapshot(t *testing.T) {
	t.Parallel()
	var (
		ctx  = context.Background()
		path = filepath.Join(t.TempDir(), "nested", "tasks.json")
	)

	require.NoError(t, snapshot.Write(ctx, path, []byte("first version, longer")))
	require.NoError(t, snapshot.Write(ctx, path, []byte("second")))

	got, err := snapshot.Read(ctx, path)
	require.NoErrorf(t, err, "snapshot read: %v", err)
	require.Equal(t, "second", string(got), "write must replace, not append")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "tmp file should be renamed away")
	require.Equal(t, "tasks.json", entries[0].Name())
}

func TestReadDirectoryFails(t *testing.T) {
	t.Parallel()
	_, err := snapshot.Read(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestWriteIntoFileParentFails(t *testing.T) {
	t.Parallel()
	parent := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err := snapshot.Write(context.Background(), filepath.Join(parent, "tasks.json"), []byte("y"))
	require.Error(t, err)
}

func TestWriteCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "tasks.json")

	require.ErrorIs(t, snapshot.Write(ctx, path, []byte("x")), context.Canceled)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
