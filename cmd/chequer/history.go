package main

import (
	"fmt"
	"log/slog"

	"github.com/lumabank/chequer/audit"
	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		userID int64
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a user's transaction history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			recorder := audit.NewRecorder(gdb, nil, slog.Default())
			rows, err := recorder.History(ctx, userID, limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(clifmt.Dim("no history"))
				return nil
			}
			for _, r := range rows {
				printRecord(r)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to return")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
