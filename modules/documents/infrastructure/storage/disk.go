package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// Storage is the blob backend attachments are stored in, keyed by their
// ULID storage key.
type Storage interface {
	Save(key string, r io.Reader) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

// DiskStorage keeps blobs as flat files under a base directory.
type DiskStorage struct {
	basePath string
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create uploads directory")
	}
	return &DiskStorage{basePath: basePath}, nil
}

func (s *DiskStorage) path(key string) string {
	// keys are ULIDs generated server-side; Base guards against path
	// separators arriving from a tampered record
	return filepath.Join(s.basePath, filepath.Base(key))
}

func (s *DiskStorage) Save(key string, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(key))
	if err != nil {
		return 0, errors.Wrap(err, "failed to create blob file")
	}
	defer f.Close()
	n, err := io.Copy(f, r)
	if err != nil {
		return 0, errors.Wrap(err, "failed to write blob")
	}
	return n, nil
}

func (s *DiskStorage) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open blob")
	}
	return f, nil
}

func (s *DiskStorage) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		return errors.Wrap(err, "failed to remove blob")
	}
	return nil
}

var _ Storage = (*DiskStorage)(nil)
