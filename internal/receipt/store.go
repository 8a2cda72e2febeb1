package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("receipt file not found")

// Store persists rendered receipts. Save returns the location recorded on the Receipt row.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}

type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid receipt name %q", name)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

func (s *FileStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *FileStore) Delete(_ context.Context, location string) error {
	err := os.Remove(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
