package db

import (
	"fmt"

	"gorm.io/gorm"
)

// applySQLitePragmas configures the connection for concurrent
// single-writer use. Foreign keys must be ON for referential-integrity
// violations to fail the enclosing transaction instead of committing
// partial rows.
func applySQLitePragmas(gdb *gorm.DB, cfg SQLiteConfig) error {
	if gdb == nil {
		return fmt.Errorf("nil gorm db")
	}
	pragmas := make([]string, 0, 3)
	if cfg.WAL {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL;")
	}
	if cfg.BusyTimeoutMs > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeoutMs))
	}
	if cfg.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys=ON;")
	}
	for _, p := range pragmas {
		if err := gdb.Exec(p).Error; err != nil {
			return err
		}
	}
	return nil
}
