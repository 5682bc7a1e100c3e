// Package blob stores uploaded images and generated report documents on the
// local filesystem, keyed by path-like strings.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"whohub/internal/domain"
)

// FilesystemStore implements ports.BlobStore under a root directory. The
// content type rides along in an xattr-style sidecar file so Get can return
// it without a database round trip.
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob root: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(path+".type", []byte(contentType), 0o644)
}

func (s *FilesystemStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, "", err
	}
	contentType := "application/octet-stream"
	if meta, err := os.ReadFile(path + ".type"); err == nil {
		contentType = string(meta)
	}
	return data, contentType, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	_ = os.Remove(path + ".type")
	return nil
}

// resolve rejects keys that would escape the root.
func (s *FilesystemStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") || clean == "/" {
		return "", domain.NewValidationError("blob_key", "invalid key")
	}
	return filepath.Join(s.root, clean), nil
}
