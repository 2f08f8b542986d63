package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GROCERY_DATA_DIR", "")
	t.Setenv("GROCERY_BACKEND", "")
	t.Setenv("GROCERY_THEME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, "grocery-list", cfg.Storage.Key)
	assert.True(t, cfg.Toast.Sound)
	d, err := cfg.ToastDuration()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, d)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GROCERY_DATA_DIR", "")
	t.Setenv("GROCERY_BACKEND", "")
	t.Setenv("GROCERY_THEME", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: SQLite
  dir: /tmp/groceries
toast:
  duration: 1500ms
  sound: false
theme: mono
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/groceries", cfg.Storage.Dir)
	assert.Equal(t, "grocery-list", cfg.Storage.Key, "unset keys keep defaults")
	assert.False(t, cfg.Toast.Sound)
	assert.True(t, cfg.Toast.Vibration)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/groceries/grocery.log", cfg.LogFile())

	d, err := cfg.ToastDuration()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: json\n"), 0o644))

	t.Setenv("GROCERY_DATA_DIR", dir)
	t.Setenv("GROCERY_BACKEND", "sqlite")
	t.Setenv("GROCERY_THEME", "neon")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "neon", cfg.Theme)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GROCERY_BACKEND", "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("storage: [oops"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	backend := filepath.Join(dir, "backend.yaml")
	require.NoError(t, os.WriteFile(backend, []byte("storage:\n  backend: redis\n"), 0o644))
	_, err = Load(backend)
	assert.ErrorContains(t, err, "redis")

	dur := filepath.Join(dir, "dur.yaml")
	require.NoError(t, os.WriteFile(dur, []byte("toast:\n  duration: soon\n"), 0o644))
	_, err = Load(dur)
	assert.ErrorContains(t, err, "toast duration")
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("GROCERY_DATA_DIR", "")
	t.Setenv("GROCERY_BACKEND", "")
	t.Setenv("GROCERY_THEME", "")

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "neon"
	cfg.Storage.Backend = BackendSQLite
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
