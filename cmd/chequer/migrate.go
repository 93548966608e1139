package main

import (
	"fmt"

	"github.com/lumabank/chequer/db"
	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := dbConfigFromViper()
			gdb, err := db.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gdb); err != nil {
				return err
			}
			fmt.Println(clifmt.Success("✔ schema up to date"))
			return nil
		},
	}
}
