package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/mauzec/tasktracker/internal/storage/codec"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// BoltTaskStore keeps one record per task in a bbolt bucket. Keys are
// big-endian ids, so cursor order is insertion order. Values use the
// codec record format. Each mutation is one committed transaction.
type BoltTaskStore struct {
	db  *bolt.DB
	ids *IDSequence

	logger *zap.Logger
}

const boltTasksBucket = "tasks"

func NewBoltTaskStore(path string, timeout time.Duration, logger *zap.Logger) (*BoltTaskStore, error) {
	if path == "" {
		return nil, errors.New("storage: required bolt path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600,
		&bolt.Options{Timeout: timeout},
	)
	if err != nil {
		return nil, fmt.Errorf("storage: opening bolt: %w", err)
	}

	maxID := 0
	if err := db.Update(func(tx *bolt.Tx) error {
		b, berr := tx.CreateBucketIfNotExists([]byte(boltTasksBucket))
		if berr != nil {
			return berr
		}
		if k, _ := b.Cursor().Last(); k != nil {
			maxID = btoi(k)
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cant init bucket: %w", err)
	}

	logger.Debug("bolt store opened",
		zap.String("path", path), zap.Int("next_id", maxID+1))

	return &BoltTaskStore{
		db:     db,
		ids:    NewIDSequence(maxID),
		logger: logger,
	}, nil
}

func (s *BoltTaskStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BoltTaskStore) Add(ctx context.Context, task *core.Task) error {
	if s.db == nil {
		return errors.New("storage: bolt not init")
	} else if task == nil {
		return errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return err
	}

	rec := task.CloneTask()
	rec.ID = s.ids.Peek()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltTasksBucket))
		if b == nil {
			return errors.New("storage: bucket miss")
		}
		return b.Put(itob(rec.ID), []byte(codec.EncodeRecord(rec)))
	})
	if err != nil {
		return s.logged("add", rec.ID, err)
	}
	task.ID = s.ids.NewID()
	return nil
}

func (s *BoltTaskStore) Update(ctx context.Context, task *core.Task) (bool, error) {
	if s.db == nil {
		return false, errors.New("storage: bolt not init")
	} else if task == nil {
		return false, errors.New("storage: required task")
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltTasksBucket))
		if b == nil {
			return errors.New("storage: bucket miss")
		}
		if b.Get(itob(task.ID)) == nil {
			return nil
		}
		found = true
		return b.Put(itob(task.ID), []byte(codec.EncodeRecord(task)))
	})
	if err != nil {
		return false, s.logged("update", task.ID, err)
	}
	return found, nil
}

func (s *BoltTaskStore) Delete(ctx context.Context, id int) (bool, error) {
	if s.db == nil {
		return false, errors.New("storage: bolt not init")
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	removed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltTasksBucket))
		if b == nil {
			return errors.New("storage: bucket miss")
		}
		if b.Get(itob(id)) == nil {
			return nil
		}
		removed = true
		return b.Delete(itob(id))
	})
	if err != nil {
		return false, s.logged("delete", id, err)
	}
	return removed, nil
}

func (s *BoltTaskStore) GetByID(ctx context.Context, id int) (*core.Task, error) {
	const op = "storage.BoltTaskStore.GetByID"
	if s.db == nil {
		return nil, errors.New("storage: bolt not init")
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	var task *core.Task
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltTasksBucket))
		if b == nil {
			return errors.New("storage: bucket miss")
		}
		value := b.Get(itob(id))
		if value == nil {
			return nil
		}
		t, ok := codec.DecodeRecord(string(value))
		if !ok {
			return fmt.Errorf("storage: cant decode task %d", id)
		}
		task = t
		return nil
	}); err != nil {
		return nil, err
	}
	if task == nil {
		return nil, core.NewTaskNotFoundError(id, op)
	}
	return task, nil
}

func (s *BoltTaskStore) ListAll(ctx context.Context) ([]*core.Task, error) {
	if s.db == nil {
		return nil, errors.New("storage: bolt not init")
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts := make([]*core.Task, 0)
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltTasksBucket))
		if b == nil {
			return errors.New("storage: bucket miss")
		}
		return b.ForEach(func(k, v []byte) error {
			t, ok := codec.DecodeRecord(string(v))
			if !ok {
				s.logger.Warn("skipping undecodable task", zap.Int("id", btoi(k)))
				return nil
			}
			ts = append(ts, t)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *BoltTaskStore) logged(action string, id int, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Error("bolt write failed",
		zap.String("action", action), zap.Int("id", id), zap.Error(err))
	return fmt.Errorf("storage: bolt %s: %w", action, err)
}

func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int {
	if len(b) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(b))
}
