package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveFile(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	fs := NewLocalFileStorage(tempDir, logger)

	t.Run("saves file successfully", func(t *testing.T) {
		fullPath := filepath.Join(tempDir, "exports", "QT-001001.pdf")
		content := []byte("%PDF-1.3")

		require.NoError(t, fs.SaveFileWithType(fullPath, content, FileTypePDF))

		saved, err := fs.ReadFile(fullPath)
		require.NoError(t, err)
		assert.Equal(t, content, saved)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		fullPath := filepath.Join(tempDir, "deep", "nested", "dir", "quotes.json")
		require.NoError(t, fs.SaveFile(fullPath, []byte("[]")))
		assert.FileExists(t, fullPath)
	})

	t.Run("overwrites existing file and leaves no temp files", func(t *testing.T) {
		dir := filepath.Join(tempDir, "overwrite")
		fullPath := filepath.Join(dir, "settings.json")

		require.NoError(t, fs.SaveFile(fullPath, []byte("original")))
		require.NoError(t, fs.SaveFile(fullPath, []byte("updated")))

		content, _ := os.ReadFile(fullPath)
		assert.Equal(t, []byte("updated"), content)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		fullPath := filepath.Join(tempDir, "gone.json")
		require.NoError(t, fs.SaveFile(fullPath, []byte("{}")))
		require.NoError(t, fs.RemoveFile(fullPath))
		require.NoError(t, fs.RemoveFile(fullPath))

		_, err := fs.ReadFile(fullPath)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLocalFileStorage_ValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "inside base", path: filepath.Join(tempDir, "quotes.json")},
		{name: "base itself", path: tempDir},
		{name: "absolute outside", path: "/etc/passwd", wantErr: true},
		{name: "traversal", path: filepath.Join(tempDir, "..", "..", "etc", "passwd"), wantErr: true},
		{name: "sibling with shared prefix", path: tempDir + "-evil/file", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidatePath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathEscapesBase)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.ErrorIs(t, fs.SaveFile("/etc/quotebook.json", []byte("x")), ErrPathEscapesBase)
}

func TestFileTypeForExtension(t *testing.T) {
	assert.Equal(t, FileTypePDF, FileTypeForExtension(".PDF"))
	assert.Equal(t, FileTypeImage, FileTypeForExtension("png"))
	assert.Equal(t, FileTypeExcel, FileTypeForExtension("xlsx"))
	assert.Equal(t, FileTypeText, FileTypeForExtension("txt"))
	assert.Equal(t, FileTypeGeneric, FileTypeForExtension("docx"))
}

func TestFolderManager(t *testing.T) {
	tempDir := t.TempDir()
	m := NewFolderManager(tempDir, zap.NewNop())

	path, err := m.CreateFolder("2026-03")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "2026-03"), path)
	assert.True(t, m.FolderExists("2026-03"))
	assert.False(t, m.FolderExists("2026-04"))

	_, err = m.CreateFolder("../..")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"QT-001001":        "QT-001001",
		"../../etc/passwd": "etcpasswd",
		"quotes.json":      "quotes.json",
		"a b/c\\d":         "abcd",
		"...":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}
