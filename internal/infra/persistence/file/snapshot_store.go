// Package file persists session snapshots to a local JSON file so the
// register survives restarts without any network dependency.
package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

type snapshotStore struct {
	path   string
	logger *slog.Logger
}

// NewSnapshotStore creates a file backed snapshot store at path.
func NewSnapshotStore(path string, logger *slog.Logger) service.SnapshotStore {
	return &snapshotStore{path: path, logger: logger}
}

func (s *snapshotStore) Save(_ context.Context, snap *entity.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	// Write to a sibling temp file and rename so a crash mid-write never
	// leaves a truncated snapshot behind.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return errors.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "close temp snapshot")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "replace snapshot")
	}

	return nil
}

func (s *snapshotStore) Load(_ context.Context) (*entity.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No snapshot found, starting with an empty session",
				slog.String("path", s.path),
			)

			return &entity.Snapshot{}, nil
		}

		return nil, errors.Wrap(err, "read snapshot")
	}

	snap := &entity.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	return snap, nil
}
