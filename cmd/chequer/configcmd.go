package main

import (
	"fmt"
	"os"

	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the viper keys so `config init` emits a file
// with stable ordering.
type fileConfig struct {
	DB struct {
		Driver      string `yaml:"driver"`
		DSN         string `yaml:"dsn"`
		AutoMigrate bool   `yaml:"automigrate"`
		Pool        struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"pool"`
		SQLite struct {
			BusyTimeoutMs int  `yaml:"busy_timeout_ms"`
			WAL           bool `yaml:"wal"`
			ForeignKeys   bool `yaml:"foreign_keys"`
		} `yaml:"sqlite"`
	} `yaml:"db"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Intent struct {
		ConfidentThreshold float64 `yaml:"confident_threshold"`
		ClarifyThreshold   float64 `yaml:"clarify_threshold"`
	} `yaml:"intent"`
	Audit struct {
		JSONL struct {
			Enabled        bool   `yaml:"enabled"`
			Path           string `yaml:"path"`
			RotateMaxBytes int64  `yaml:"rotate_max_bytes"`
		} `yaml:"jsonl"`
	} `yaml:"audit"`
}

func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.DB.Driver = "sqlite"
	fc.DB.DSN = "chequer.db"
	fc.DB.AutoMigrate = true
	fc.DB.Pool.MaxOpenConns = 1
	fc.DB.Pool.MaxIdleConns = 1
	fc.DB.SQLite.BusyTimeoutMs = 5000
	fc.DB.SQLite.WAL = true
	fc.DB.SQLite.ForeignKeys = true
	fc.Log.Level = "info"
	fc.Log.Format = "text"
	fc.Intent.ConfidentThreshold = 0.50
	fc.Intent.ClarifyThreshold = 0.40
	fc.Audit.JSONL.Enabled = false
	fc.Audit.JSONL.Path = "chequer-audit.jsonl"
	fc.Audit.JSONL.RotateMaxBytes = 100 * 1024 * 1024
	return fc
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "chequer.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			out, err := yaml.Marshal(defaultFileConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return err
			}
			fmt.Println(clifmt.Success("✔ wrote " + path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
