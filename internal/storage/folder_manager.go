package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// FolderManager manages named folders under a base directory, such as the
// per-month folders of batch exports
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a new FolderManager
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{
		baseDir: baseDir,
		logger:  logger,
	}
}

// CreateFolder creates {baseDir}/{name} and returns its path
func (m *FolderManager) CreateFolder(name string) (string, error) {
	safeName := SanitizeName(name)
	if safeName == "" {
		return "", fmt.Errorf("cannot create folder: empty name %q", name)
	}

	folderPath := filepath.Join(m.baseDir, safeName)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create folder",
			zap.String("name", name),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	m.logger.Debug("Created folder", zap.String("folder_path", folderPath))
	return folderPath, nil
}

// FolderPath returns the path for a folder without creating it
func (m *FolderManager) FolderPath(name string) string {
	return filepath.Join(m.baseDir, SanitizeName(name))
}

// FolderExists checks if a folder already exists
func (m *FolderManager) FolderExists(name string) bool {
	info, err := os.Stat(m.FolderPath(name))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SanitizeName returns a filesystem-safe version of name: path separators
// and parent references are removed and only alphanumerics, '-', '_' and
// single dots are kept
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = unsafeNameChars.ReplaceAllString(name, "")
	return strings.Trim(name, ".")
}
