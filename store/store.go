package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const appDirName = "moviedeck-cli"

// Persisted keys. Each one is owned by exactly one state container.
const (
	KeyUserToken     = "userToken"
	KeyUserData      = "userData"
	KeyFavorites     = "favorites"
	KeyTheme         = "theme"
	KeySearchHistory = "searchHistory"
)

// Store is a string-keyed key-value persistence capability.
// Get reports ok=false for absent keys; Remove of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// BlobStore keeps one blob per key in a gocloud bucket.
type BlobStore struct {
	mu     sync.Mutex
	bucket *blob.Bucket
}

func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// OpenBucketStore opens any gocloud bucket URL (file:///path, mem://).
// An empty URL selects a directory under the user config dir.
func OpenBucketStore(ctx context.Context, url string) (*BlobStore, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, &StorageError{Op: "open", Err: err}
		}
		bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true, NoTempDir: true})
		if err != nil {
			return nil, &StorageError{Op: "open", Err: errors.Wrapf(err, "open data dir %s", dir)}
		}
		return NewBlobStore(bucket), nil
	}

	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: errors.Wrapf(err, "open bucket %s", url)}
	}
	return NewBlobStore(bucket), nil
}

func DefaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(dir, appDirName, "data"), nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", false, nil
		}
		return "", false, &StorageError{Op: "get", Key: key, Err: errors.WithStack(err)}
	}
	return string(data), true, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value string) error {
	if err := checkKey(key); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := &blob.WriterOptions{ContentType: "text/plain; charset=utf-8"}
	if err := s.bucket.WriteAll(ctx, key, []byte(value), opts); err != nil {
		return &StorageError{Op: "set", Key: key, Err: errors.WithStack(err)}
	}
	return nil
}

func (s *BlobStore) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return &StorageError{Op: "remove", Key: key, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return &StorageError{Op: "remove", Key: key, Err: errors.WithStack(err)}
	}
	return nil
}

func (s *BlobStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bucket.Close(); err != nil {
		return &StorageError{Op: "close", Err: errors.WithStack(err)}
	}
	return nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	return nil
}
