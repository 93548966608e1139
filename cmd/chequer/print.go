package main

import (
	"fmt"
	"time"

	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/internal/clifmt"
	"github.com/lumabank/chequer/pipeline"
)

func printOutcome(out pipeline.Outcome) {
	switch {
	case out.NeedsClarification:
		fmt.Println(clifmt.Warn("? " + out.Message))
	case out.Success:
		fmt.Println(clifmt.Success("✔ " + out.Message))
	default:
		fmt.Println(clifmt.Fail("✘ " + out.Message))
	}
	if out.Intent.Operation != "" {
		fmt.Println(clifmt.Dim(fmt.Sprintf("  intent=%s confidence=%.2f", out.Intent.Operation, out.Intent.Confidence)))
	}
	for _, c := range out.Checks {
		printCheck(c)
	}
	for _, r := range out.History {
		printRecord(r)
	}
}

func printCheck(c models.Check) {
	fmt.Printf("  %s  %-9s  $%-10s  issuer=%d payee=%d  matures %s\n",
		clifmt.Key(fmt.Sprintf("#%d", c.ID)),
		string(c.Status),
		c.Amount.StringFixed(2),
		c.IssuerID,
		c.PayeeID,
		time.Unix(c.MaturityDate, 0).Format("2006-01-02"),
	)
}

func printRecord(r models.TransactionRecord) {
	amount := "-"
	if r.Amount != nil {
		amount = "$" + r.Amount.StringFixed(2)
	}
	fmt.Printf("  %s  %-14s  %-7s  %-12s  %s\n",
		time.Unix(r.CreatedAt, 0).Format("2006-01-02 15:04"),
		r.OperationType,
		string(r.Status),
		amount,
		clifmt.Dim(r.ConversationContext),
	)
}
