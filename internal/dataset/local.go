package dataset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LocalStore keeps dataset blobs as files in one directory.
type LocalStore struct {
	dir string
	log *zap.Logger
}

// NewLocalStore creates the data directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "dataset: create data dir %s", dir)
	}
	return &LocalStore{
		dir: dir,
		log: zap.L().With(zap.String("component", "dataset.local")),
	}, nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.dir, blobKey(name))
}

// Save writes the blob via a temp file so readers never observe a
// half-written dataset.
func (s *LocalStore) Save(_ context.Context, name string, data []byte) error {
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "dataset: write %s", tmp)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return eris.Wrapf(err, "dataset: rename %s", tmp)
	}
	s.log.Info("saved dataset", zap.String("name", name), zap.Int("bytes", len(data)))
	return nil
}

func (s *LocalStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", name)
	}
	return data, nil
}

func (s *LocalStore) Stat(_ context.Context, name string) (int64, error) {
	info, err := os.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: stat %s", name)
	}
	return info.Size(), nil
}
