package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brightpool/assetvault/storage"
)

// FileStore implements storage.BlobStore on the local filesystem. Blob paths
// are resolved relative to the root directory and may not escape it.
type FileStore struct {
	root string
}

var _ storage.BlobStore = (*FileStore)(nil)

// NewFileStore creates a blob store rooted at the given directory, creating
// it if necessary.
//
// Returns storage.BlobStore interface to enforce abstraction.
func NewFileStore(root string) (storage.BlobStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &FileStore{root: root}, nil
}

// resolve maps a blob path to a filesystem path under the root, rejecting
// paths that would escape it.
func (s *FileStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.root, cleaned), nil
}

// Upload stores data at the given path, overwriting any existing blob.
func (s *FileStore) Upload(ctx context.Context, path string, data []byte) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0644)
}

// Download retrieves the blob at the given path.
func (s *FileStore) Download(ctx context.Context, path string) ([]byte, error) {
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Remove deletes the blob at the given path. Removing a missing blob is not
// an error.
func (s *FileStore) Remove(ctx context.Context, path string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
