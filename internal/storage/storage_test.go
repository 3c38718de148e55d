package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/sharpen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()

	sqlStore, err := OpenSQL(filepath.Join(t.TempDir(), "state", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })

	return map[string]KV{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "state")),
		"sqlite": sqlStore,
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := kv.Get(context.Background(), HistoryKey)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, data)
		})
	}
}

func TestKV_PutGetOverwrite(t *testing.T) {
	ctx := context.Background()

	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, SettingsKey, []byte(`{"provider":"gemini"}`)))

			data, ok, err := kv.Get(ctx, SettingsKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"provider":"gemini"}`, string(data))

			require.NoError(t, kv.Put(ctx, SettingsKey, []byte(`{"provider":"openai"}`)))

			data, _, err = kv.Get(ctx, SettingsKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"provider":"openai"}`, string(data))

			// Keys are independent.
			_, ok, err = kv.Get(ctx, HistoryKey)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStore_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, store.Put(context.Background(), HistoryKey, []byte("[]")))

	data, err := os.ReadFile(filepath.Join(dir, "promptHistory.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_RejectsBadKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, key := range []string{"", "../escape", `a\b`, ".hidden"} {
		err := store.Put(context.Background(), key, []byte("x"))
		assert.Error(t, err, key)
	}
}

func TestOpen_SelectsDriver(t *testing.T) {
	paths := config.NewPathsWithOverrides(t.TempDir(), t.TempDir())

	cfg := config.Default()
	kv, err := Open(cfg, paths)
	require.NoError(t, err)
	_, isFile := kv.(*FileStore)
	assert.True(t, isFile)

	cfg.Storage.Driver = config.DriverSQLite
	kv, err = Open(cfg, paths)
	require.NoError(t, err)
	defer kv.Close()
	_, isSQL := kv.(*SQLStore)
	assert.True(t, isSQL)
	assert.FileExists(t, paths.Database)
}
