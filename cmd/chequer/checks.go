package main

import (
	"fmt"
	"log/slog"

	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/lumabank/chequer/ledger"
	"github.com/spf13/cobra"
)

func newChecksCmd() *cobra.Command {
	var (
		userID    int64
		direction string
	)
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List checks for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			engine := ledger.NewEngine(gdb, ledger.NewResolver(gdb, ledger.StaticScorer(), slog.Default()), slog.Default())

			var dir ledger.Direction
			switch direction {
			case "issued":
				dir = ledger.DirectionIssued
			case "incoming":
				dir = ledger.DirectionIncoming
			case "all", "":
				dir = ledger.DirectionAll
			default:
				return fmt.Errorf("unknown direction %q (want issued, incoming or all)", direction)
			}

			checks, err := engine.ListChecks(ctx, userID, dir)
			if err != nil {
				return err
			}
			if len(checks) == 0 {
				fmt.Println(clifmt.Dim("no checks"))
				return nil
			}
			for _, c := range checks {
				printCheck(c)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	cmd.Flags().StringVar(&direction, "direction", "all", "issued, incoming or all")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a user's balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			engine := ledger.NewEngine(gdb, ledger.NewResolver(gdb, ledger.StaticScorer(), slog.Default()), slog.Default())
			bal, err := engine.Balance(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("%s $%s\n", clifmt.Key("balance:"), bal.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
