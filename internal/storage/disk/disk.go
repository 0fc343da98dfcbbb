package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "image-service/pkg/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	errKeyEscapesRoot        = "storage key escapes root directory"
	errFailedCreateDirFmt    = "failed to create storage directory: %w"
	errFailedStatObjectFmt   = "failed to stat object: %w"
	errFailedReadObjectFmt   = "failed to read object: %w"
	errFailedWriteObjectFmt  = "failed to write object: %w"
	errFailedDeleteObjectFmt = "failed to delete object: %w"
)

// Store keeps blobs as plain files under a root directory. Keys map directly
// to relative paths; anything resolving outside the root is refused.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf(errFailedCreateDirFmt, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf(errFailedStatObjectFmt, err)
	}
	return true, nil
}

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound(key)
		}
		return nil, fmt.Errorf(errFailedReadObjectFmt, err)
	}
	return data, nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf(errFailedCreateDirFmt, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf(errFailedWriteObjectFmt, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", apperrors.BadRequest(errKeyEscapesRoot)
	}
	return path, nil
}
