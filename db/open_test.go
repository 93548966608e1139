package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemoryAndMigrate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DSN = ":memory:"
	cfg.SQLite.WAL = false

	gdb, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))

	for _, table := range []string{"entities", "users", "checks", "transaction_records"} {
		assert.True(t, gdb.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = "postgres"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db.driver")
}

func TestResolveSQLiteDSN(t *testing.T) {
	got, err := ResolveSQLiteDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", got)

	got, err = ResolveSQLiteDSN("file::memory:?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file::memory:?cache=shared", got)

	dir := t.TempDir()
	got, err = ResolveSQLiteDSN(filepath.Join(dir, "nested", "chequer.db"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.DirExists(t, filepath.Dir(got))
}
