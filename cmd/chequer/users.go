package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/lumabank/chequer/ledger"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage ledger parties",
	}
	cmd.AddCommand(newUserAddCmd(), newUserListCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Create a party (idempotent on canonical name)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			resolver := ledger.NewResolver(gdb, ledger.StaticScorer(), slog.Default())
			ent, err := resolver.ResolveOrCreate(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("%s id=%d name=%q type=%s reputation=%.1f\n",
				clifmt.Success("✔"), ent.ID, ent.CanonicalName, string(ent.EntityType), ent.ReputationScore)
			return nil
		},
	}
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known parties",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			var entities []models.Entity
			if err := gdb.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
				return err
			}
			if len(entities) == 0 {
				fmt.Println(clifmt.Dim("no parties"))
				return nil
			}
			for _, ent := range entities {
				fmt.Printf("  %s  %-24s  %-8s  rep=%.1f  txns=%d  volume=$%s\n",
					clifmt.Key(fmt.Sprintf("#%d", ent.ID)),
					ent.CanonicalName,
					string(ent.EntityType),
					ent.ReputationScore,
					ent.TransactionCount,
					ent.TotalVolume.StringFixed(2),
				)
			}
			return nil
		},
	}
}
