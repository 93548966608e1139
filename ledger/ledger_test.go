package ledger

import (
	"context"
	"testing"

	"github.com/lumabank/chequer/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := db.DefaultConfig()
	cfg.DSN = ":memory:"
	cfg.SQLite.WAL = false
	gdb, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}
