package main

import (
	"context"
	"log/slog"

	"github.com/lumabank/chequer/audit"
	"github.com/lumabank/chequer/db"
	"github.com/lumabank/chequer/intent"
	"github.com/lumabank/chequer/ledger"
	"github.com/lumabank/chequer/pipeline"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func dbConfigFromViper() db.Config {
	cfg := db.DefaultConfig()

	cfg.Driver = viper.GetString("db.driver")
	cfg.DSN = viper.GetString("db.dsn")
	cfg.AutoMigrate = viper.GetBool("db.automigrate")

	cfg.Pool.MaxOpenConns = viper.GetInt("db.pool.max_open_conns")
	cfg.Pool.MaxIdleConns = viper.GetInt("db.pool.max_idle_conns")
	cfg.Pool.ConnMaxLifetime = viper.GetDuration("db.pool.conn_max_lifetime")
	if cfg.Pool.ConnMaxLifetime < 0 {
		cfg.Pool.ConnMaxLifetime = 0
	}

	cfg.SQLite.BusyTimeoutMs = viper.GetInt("db.sqlite.busy_timeout_ms")
	cfg.SQLite.WAL = viper.GetBool("db.sqlite.wal")
	cfg.SQLite.ForeignKeys = viper.GetBool("db.sqlite.foreign_keys")

	// Ensure reasonable defaults even if config has zeros.
	if cfg.Pool.MaxOpenConns <= 0 {
		cfg.Pool.MaxOpenConns = 1
	}
	if cfg.Pool.MaxIdleConns <= 0 {
		cfg.Pool.MaxIdleConns = 1
	}
	if cfg.SQLite.BusyTimeoutMs <= 0 {
		cfg.SQLite.BusyTimeoutMs = 5000
	}

	return cfg
}

func intentConfigFromViper() intent.Config {
	cfg := intent.DefaultConfig()
	if v := viper.GetFloat64("intent.confident_threshold"); v > 0 {
		cfg.ConfidentThreshold = v
	}
	if v := viper.GetFloat64("intent.clarify_threshold"); v > 0 {
		cfg.ClarifyThreshold = v
	}
	return cfg
}

func openDB(ctx context.Context) (*gorm.DB, error) {
	cfg := dbConfigFromViper()
	gdb, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(gdb); err != nil {
			return nil, err
		}
	}
	return gdb, nil
}

// buildProcessor wires the full utterance path. The returned close
// function flushes the optional JSONL audit mirror.
func buildProcessor(gdb *gorm.DB) (*pipeline.Processor, *ledger.Resolver, func() error, error) {
	log := slog.Default()

	resolver := ledger.NewResolver(gdb, ledger.StaticScorer(), log)
	engine := ledger.NewEngine(gdb, resolver, log)

	var sink *audit.JSONLSink
	closeFn := func() error { return nil }
	if viper.GetBool("audit.jsonl.enabled") {
		s, err := audit.NewJSONLSink(
			viper.GetString("audit.jsonl.path"),
			viper.GetInt64("audit.jsonl.rotate_max_bytes"),
		)
		if err != nil {
			return nil, nil, nil, err
		}
		sink = s
		closeFn = s.Close
	}
	recorder := audit.NewRecorder(gdb, sink, log)

	proc := pipeline.New(intent.New(intentConfigFromViper()), engine, recorder, log)
	return proc, resolver, closeFn, nil
}
