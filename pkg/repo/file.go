package repo

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/spendsync/spendsync/pkg/common"
)

// FileStore persists named blobs as files in a single directory. Writes go
// through a temp file and rename so a crashed write never leaves a partial
// blob behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "create data dir %s", dir), common.ErrPersistence)
	}

	return &FileStore{
		dir: dir,
	}, nil
}

// ReadBlob returns os.ErrNotExist wrapped when the blob was never written;
// callers treat that as first run.
func (f *FileStore) ReadBlob(name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read blob %s", name), common.ErrPersistence)
	}

	return data, nil
}

func (f *FileStore) WriteBlob(name string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "create temp for blob %s", name), common.ErrPersistence)
	}

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Mark(errors.Wrapf(err, "write blob %s", name), common.ErrPersistence)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Mark(errors.Wrapf(err, "close blob %s", name), common.ErrPersistence)
	}

	if err = os.Rename(tmp.Name(), f.path(name)); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Mark(errors.Wrapf(err, "replace blob %s", name), common.ErrPersistence)
	}

	return nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}
