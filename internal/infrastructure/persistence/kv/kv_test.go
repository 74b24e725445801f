package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/storage"
	"github.com/garyjia/quotebook/pkg/database"
)

// exerciseStore runs the behavior every backend shares
func exerciseStore(t *testing.T, s port.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, port.KeyQuotes)
	assert.ErrorIs(t, err, port.ErrKeyNotFound)

	require.NoError(t, s.Put(ctx, port.KeyQuotes, []byte(`[{"id":"1"}]`)))
	got, err := s.Get(ctx, port.KeyQuotes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, s.Put(ctx, port.KeyQuotes, []byte(`[]`)))
	got, err = s.Get(ctx, port.KeyQuotes)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, s.Put(ctx, port.KeySettings, []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, port.KeyQuotes))
	_, err = s.Get(ctx, port.KeyQuotes)
	assert.ErrorIs(t, err, port.ErrKeyNotFound)

	got, err = s.Get(ctx, port.KeySettings)
	require.NoError(t, err, "keys are independent")
	assert.Equal(t, "{}", string(got))

	require.NoError(t, s.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'x'

	got, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLiteStore(database.Config{Path: filepath.Join(t.TempDir(), "kv.db")}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	s, err := OpenSQLiteStore(database.Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, port.KeySettings, []byte(`{"companyName":"Acme"}`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLiteStore(database.Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, port.KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"companyName":"Acme"}`, string(got))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(storage.NewLocalFileStorage(dir, zap.NewNop()), zap.NewNop())
	exerciseStore(t, s)

	require.NoError(t, s.Put(context.Background(), port.KeySettings, []byte(`{"a":1}`)))
	assert.FileExists(t, filepath.Join(dir, "settings.json"))
}

func TestFileStore_RejectsTraversalKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(storage.NewLocalFileStorage(dir, zap.NewNop()), zap.NewNop())

	err := s.Put(context.Background(), "../..", []byte("x"))
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("QUOTEBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("QUOTEBOOK_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := OpenPostgresStore(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_ = s.Delete(ctx, port.KeyQuotes)
	_ = s.Delete(ctx, port.KeySettings)
	exerciseStore(t, s)
}
