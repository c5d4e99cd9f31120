package config

import (
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(memoryfs.New(), "/etc/cymig/config.json")
	require.NoError(t, cfg.Load())

	assert.Equal(t, DefaultStoreURI, cfg.Store.URI)
	assert.Equal(t, DefaultStoreUsername, cfg.Store.Username)
	assert.Equal(t, DefaultStoreDatabase, cfg.Store.Database)
	assert.Equal(t, DefaultMigrationsDir, cfg.Migrations.Dir)
	assert.Empty(t, cfg.Store.Password)
}

func TestConfigLoadPartial(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	require.NoError(t, fsys.MkdirAll("/etc/cymig", 0o755))
	require.NoError(t, vfs.WriteFile(fsys, "/etc/cymig/config.json",
		[]byte(`{"store": {"uri": "neo4j://db.internal:7687"}, "migrations": {"dir": "/srv/migrations"}}`),
		0o644))

	cfg := NewConfig(fsys, "/etc/cymig/config.json")
	require.NoError(t, cfg.Load())

	assert.Equal(t, "neo4j://db.internal:7687", cfg.Store.URI)
	assert.Equal(t, "/srv/migrations", cfg.Migrations.Dir)
	// Unset values still fall back to defaults.
	assert.Equal(t, DefaultStoreUsername, cfg.Store.Username)
	assert.Equal(t, DefaultStoreDatabase, cfg.Store.Database)
}

func TestConfigLoadInvalid(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	require.NoError(t, fsys.MkdirAll("/etc/cymig", 0o755))
	require.NoError(t, vfs.WriteFile(fsys, "/etc/cymig/config.json",
		[]byte(`{not json`), 0o644))

	cfg := NewConfig(fsys, "/etc/cymig/config.json")
	assert.ErrorContains(t, cfg.Load(), "failed parsing configuration file")
}

func TestConfigSaveRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	cfg := NewConfig(fsys, "/etc/cymig/config.json")
	require.NoError(t, cfg.Load())
	cfg.Store.URI = "neo4j://db.internal:7687"
	cfg.Store.Database = "models"
	require.NoError(t, cfg.Save())

	loaded := NewConfig(fsys, "/etc/cymig/config.json")
	require.NoError(t, loaded.Load())
	assert.Equal(t, "neo4j://db.internal:7687", loaded.Store.URI)
	assert.Equal(t, "models", loaded.Store.Database)
}
