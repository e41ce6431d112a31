package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "kuhn", cfg.Game)
	assert.Equal(t, 100000, cfg.Iterations)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, 10000, cfg.SaveEvery)
	assert.Equal(t, 4, cfg.Parallel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cscfr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: leduc\niterations: 500\nstore: leveldb\npath: /tmp/leduc.ldb\n"), 0o644))
	t.Setenv("CSCFR_ITERATIONS", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "leduc", cfg.Game)
	assert.Equal(t, 42, cfg.Iterations)
	assert.Equal(t, StoreLevelDB, cfg.Store)
	assert.Equal(t, "/tmp/leduc.ldb", cfg.Path)
	assert.Equal(t, 100000, cfg.Episodes)
}

func TestValidate(t *testing.T) {
	t.Setenv("CSCFR_GAME", "chess")
	_, err := Load("")
	assert.Error(t, err)

	cfg := &Config{Game: "pennies", Store: "s3"}
	assert.Error(t, cfg.Validate())

	cfg.Store = StoreFile
	assert.NoError(t, cfg.Validate())

	cfg.SaveEvery = -1
	assert.Error(t, cfg.Validate())
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
