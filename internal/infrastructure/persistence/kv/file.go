package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/storage"
)

var _ port.KeyValueStore = (*FileStore)(nil)

// FileStore keeps each blob in {dir}/{key}.json
type FileStore struct {
	mu     sync.Mutex
	files  storage.FileStorage
	logger *zap.Logger
}

// NewFileStore stores blobs under files.BaseDir()
func NewFileStore(files storage.FileStorage, logger *zap.Logger) *FileStore {
	return &FileStore{files: files, logger: logger}
}

func (s *FileStore) path(key string) (string, error) {
	name := storage.SanitizeName(key)
	if name == "" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.files.BaseDir(), name+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.files.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, port.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.SaveFileWithType(p, value, storage.FileTypeJSON)
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.RemoveFile(p)
}

func (s *FileStore) Close() error {
	return nil
}
