// Package storage keeps files under a base directory: the JSON blobs of the
// file persistence backend and exported documents.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrPathEscapesBase is returned for paths outside the base directory
var ErrPathEscapesBase = errors.New("path escapes base directory")

// FileType represents the type of file being stored
type FileType int

const (
	FileTypeGeneric FileType = iota
	FileTypeJSON
	FileTypePDF
	FileTypeImage
	FileTypeExcel
	FileTypeText
)

// FileTypeForExtension maps an export extension to its FileType
func FileTypeForExtension(ext string) FileType {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "json":
		return FileTypeJSON
	case "pdf":
		return FileTypePDF
	case "png", "jpg", "jpeg":
		return FileTypeImage
	case "xlsx":
		return FileTypeExcel
	case "txt":
		return FileTypeText
	}
	return FileTypeGeneric
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithType writes content atomically, creating parent directories
	SaveFileWithType(fullPath string, content []byte, fileType FileType) error
	ReadFile(fullPath string) ([]byte, error)
	RemoveFile(fullPath string) error
	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
	BaseDir() string
}

// LocalFileStorage implements FileStorage for local filesystem
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// BaseDir returns the root every stored path must live under
func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

// SaveFile writes content to the specified full path
func (s *LocalFileStorage) SaveFile(fullPath string, content []byte) error {
	return s.SaveFileWithType(fullPath, content, FileTypeGeneric)
}

// SaveFileWithType writes to a temporary sibling and renames it into place so
// readers never observe a half-written file
func (s *LocalFileStorage) SaveFileWithType(fullPath string, content []byte, fileType FileType) error {
	if err := s.ValidatePath(fullPath); err != nil {
		return err
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	tmp, err := os.CreateTemp(parentDir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		s.logger.Error("Failed to write file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		_ = os.Remove(tmpPath)
		s.logger.Error("Failed to move file into place", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved successfully",
		zap.String("path", fullPath),
		zap.Int("size", len(content)),
		zap.Int("file_type", int(fileType)))
	return nil
}

// ReadFile reads a file under the base directory. A missing file yields an
// error matching os.ErrNotExist.
func (s *LocalFileStorage) ReadFile(fullPath string) ([]byte, error) {
	if err := s.ValidatePath(fullPath); err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}

// RemoveFile deletes a file; removing a missing file succeeds
func (s *LocalFileStorage) RemoveFile(fullPath string) error {
	if err := s.ValidatePath(fullPath); err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, fullPath)
	}
	return nil
}
