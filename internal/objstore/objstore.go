// Package objstore abstracts the blob store survey archives are uploaded
// to. The pipeline only ever needs "give me the bytes at bucket/key".
package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"brandpulse/internal/config"
)

type ObjectStore interface {
	Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Open constructs the object store selected by configuration.
func Open(cfg config.Config) (ObjectStore, error) {
	switch cfg.ObjectStoreDriver {
	case "local":
		return NewLocalStore(cfg.LocalObjectDir), nil
	case "gcs":
		return NewGCSStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported object store driver: %s", cfg.ObjectStoreDriver)
	}
}

// LocalStore serves objects from a directory tree: bucket is a subdirectory,
// key a path beneath it. Used for development and tests.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(bucket, key string) string {
	return filepath.Join(s.root, bucket, filepath.FromSlash(key))
}

func (s *LocalStore) Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(bucket, key))
	if err != nil {
		return nil, fmt.Errorf("objstore: fetch %s/%s: %w", bucket, key, err)
	}
	return f, nil
}

func (s *LocalStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := os.Stat(s.path(bucket, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
