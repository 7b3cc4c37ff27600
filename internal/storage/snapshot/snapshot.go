// Package snapshot replaces whole files on disk. Every write is a complete
// image of the data: tmp file, fsync, rename.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Write persists data to the path, replacing any previous content. Readers
// see either the old file or the new one, never a partial write.
func Write(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return errors.New("snapshot: required path")
	} else if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create tmp: %w", err)
	}
	tmpPath := f.Name()
	if err := writeSynced(f, data); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("snapshot: chmod tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("snapshot: rename tmp: %w", err)
	}
	return nil
}

// writeSynced writes data, fsyncs and closes f. f is closed on every path.
func writeSynced(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return errors.Join(fmt.Errorf("snapshot: write: %w", err), f.Close())
	}
	if err := f.Sync(); err != nil {
		return errors.Join(fmt.Errorf("snapshot: fsync: %w", err), f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	return nil
}

// Read loads the file content. A missing file is not an error: it returns nil, nil.
func Read(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("snapshot: required path")
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	return data, nil
}
