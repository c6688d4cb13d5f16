// Package blob persists session snapshots to a bucket through gocloud,
// so one config line switches between local directories and cloud storage.
package blob

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

type snapshotStore struct {
	bucket *blob.Bucket
	key    string
	logger *slog.Logger
}

// NewSnapshotStore opens the bucket at bucketURL and stores snapshots
// under key. The caller owns the returned Close.
func NewSnapshotStore(ctx context.Context, bucketURL, key string, logger *slog.Logger) (service.SnapshotStore, func() error, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}

	store := &snapshotStore{bucket: bucket, key: key, logger: logger}

	return store, bucket.Close, nil
}

func (s *snapshotStore) Save(ctx context.Context, snap *entity.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := s.bucket.WriteAll(ctx, s.key, data, nil); err != nil {
		return errors.Wrap(err, "write snapshot object")
	}

	return nil
}

func (s *snapshotStore) Load(ctx context.Context) (*entity.Snapshot, error) {
	data, err := s.bucket.ReadAll(ctx, s.key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			s.logger.Info("No snapshot object found, starting with an empty session",
				slog.String("key", s.key),
			)

			return &entity.Snapshot{}, nil
		}

		return nil, errors.Wrap(err, "read snapshot object")
	}

	snap := &entity.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot object")
	}

	return snap, nil
}
