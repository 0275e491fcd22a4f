package storage

import (
	"context"
	"io/fs"
	"path"
	"strings"
)

// FSStore serves a read-only fs.FS, such as embedded data.
type FSStore struct {
	FS fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{FS: fsys}
}

func (s *FSStore) Put(context.Context, string, []byte) error {
	return ErrReadOnly
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, path.Clean(key))
}

func (s *FSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := fs.WalkDir(s.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && strings.HasPrefix(p, prefix) {
			keys = append(keys, p)
		}
		return nil
	})
	return keys, err
}
