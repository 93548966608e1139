package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive natural-language session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			proc, _, closeFn, err := buildProcessor(gdb)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Println(clifmt.Headerf("chequer — type a command, or \"exit\""))
			sc := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(clifmt.Key("> "))
				if !sc.Scan() {
					break
				}
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				out, err := proc.Process(ctx, userID, line)
				if err != nil {
					fmt.Println(clifmt.Fail("audit failure: " + err.Error()))
				}
				printOutcome(out)
			}
			return sc.Err()
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newProcessCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "process <text>...",
		Short: "Process one utterance and print the structured outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, err := openDB(ctx)
			if err != nil {
				return err
			}
			proc, _, closeFn, err := buildProcessor(gdb)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := proc.Process(ctx, userID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printOutcome(out)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
