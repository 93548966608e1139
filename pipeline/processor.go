package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lumabank/chequer/audit"
	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/intent"
	"github.com/lumabank/chequer/ledger"
	"github.com/shopspring/decimal"
)

// Outcome is the structured result handed to the conversational
// front-end: a success flag, a human-readable message, and whatever
// data the operation produced.
type Outcome struct {
	Success            bool
	Message            string
	NeedsClarification bool
	Intent             intent.Intent

	Check     *models.Check
	Successor *models.Check
	Checks    []models.Check
	History   []models.TransactionRecord
	Balance   *decimal.Decimal
}

// Processor sequences one utterance through the recognizer, the
// lifecycle engine and the recorder. Exactly one audit record is
// written per processed utterance, whatever the outcome.
type Processor struct {
	recognizer *intent.Recognizer
	engine     *ledger.Engine
	recorder   *audit.Recorder
	log        *slog.Logger
}

func New(recognizer *intent.Recognizer, engine *ledger.Engine, recorder *audit.Recorder, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{recognizer: recognizer, engine: engine, recorder: recorder, log: log}
}

// Process parses text for userID and executes the recognized operation.
// Low-confidence or ambiguous intents come back as clarification
// requests and execute nothing. The returned error reports audit-trail
// failures only; operation failures surface in the Outcome.
func (p *Processor) Process(ctx context.Context, userID int64, text string) (Outcome, error) {
	it := p.recognizer.Parse(text)
	out := p.execute(ctx, userID, it)
	out.Intent = it

	entry := audit.Entry{
		UserID:           userID,
		Operation:        string(it.Operation),
		Success:          out.Success,
		Amount:           it.Parameters.Amount,
		Context:          it.SourceText,
		IntentConfidence: it.Confidence,
		CounterpartyID:   counterpartyOf(userID, out.Check),
	}
	if _, err := p.recorder.Record(ctx, entry); err != nil {
		p.log.Error("audit record failed", "user_id", userID, "operation", string(it.Operation), "error", err)
		return out, fmt.Errorf("record transaction: %w", err)
	}
	return out, nil
}

func (p *Processor) execute(ctx context.Context, userID int64, it intent.Intent) Outcome {
	if it.NeedsClarification() {
		return Outcome{
			NeedsClarification: true,
			Message:            clarificationMessage(it),
		}
	}

	params := it.Parameters
	switch it.Operation {
	case intent.OpIssueCheck:
		if params.Amount == nil || params.Counterparty == "" {
			return Outcome{NeedsClarification: true, Message: clarificationMessage(it)}
		}
		c, err := p.engine.Issue(ctx, userID, params.Counterparty, *params.Amount, ledger.DefaultDaysToMaturity)
		if err != nil {
			return failure(err)
		}
		return Outcome{
			Success: true,
			Message: fmt.Sprintf("Check #%d issued to %s for $%s.", c.ID, params.Counterparty, c.Amount.StringFixed(2)),
			Check:   &c,
		}

	case intent.OpAcceptCheck:
		c, err := p.engine.Accept(ctx, userID, refFrom(params))
		if err != nil {
			return failure(err)
		}
		return Outcome{Success: true, Message: fmt.Sprintf("Check #%d accepted.", c.ID), Check: &c}

	case intent.OpDenyCheck:
		c, err := p.engine.Deny(ctx, userID, refFrom(params))
		if err != nil {
			return failure(err)
		}
		return Outcome{Success: true, Message: fmt.Sprintf("Check #%d denied.", c.ID), Check: &c}

	case intent.OpForwardCheck:
		orig, succ, err := p.engine.Forward(ctx, userID, refFrom(params), params.Counterparty)
		if err != nil {
			return failure(err)
		}
		return Outcome{
			Success:   true,
			Message:   fmt.Sprintf("Check #%d forwarded to %s as check #%d.", orig.ID, params.Counterparty, succ.ID),
			Check:     &orig,
			Successor: &succ,
		}

	case intent.OpQueryBalance:
		bal, err := p.engine.Balance(ctx, userID)
		if err != nil {
			return failure(err)
		}
		return Outcome{
			Success: true,
			Message: fmt.Sprintf("Balance: $%s.", bal.StringFixed(2)),
			Balance: &bal,
		}

	case intent.OpQueryChecks:
		dir := directionFrom(it.SourceText)
		checks, err := p.engine.ListChecks(ctx, userID, dir)
		if err != nil {
			return failure(err)
		}
		return Outcome{
			Success: true,
			Message: fmt.Sprintf("You have %d check(s).", len(checks)),
			Checks:  checks,
		}

	case intent.OpQueryHistory:
		rows, err := p.recorder.History(ctx, userID, 50)
		if err != nil {
			return failure(err)
		}
		return Outcome{
			Success: true,
			Message: fmt.Sprintf("Found %d record(s).", len(rows)),
			History: rows,
		}

	case intent.OpTokenizeCheck, intent.OpBuyToken, intent.OpRedeemToken, intent.OpQueryTokens:
		return Outcome{Message: "Token operations aren't available yet."}

	default:
		return Outcome{
			NeedsClarification: true,
			Message:            "I couldn't work out what you want to do. Try something like \"issue a check to Alice for $100\".",
		}
	}
}

func refFrom(p intent.Parameters) ledger.CheckRef {
	ref := ledger.CheckRef{Issuer: p.Counterparty}
	if p.ReferenceID != nil {
		ref.ID = *p.ReferenceID
	}
	return ref
}

func directionFrom(text string) ledger.Direction {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "issued"):
		return ledger.DirectionIssued
	case strings.Contains(lower, "incoming"), strings.Contains(lower, "pending"):
		return ledger.DirectionIncoming
	default:
		return ledger.DirectionAll
	}
}

func clarificationMessage(it intent.Intent) string {
	if len(it.Ambiguities) > 0 {
		return "I need a bit more detail: missing " + strings.Join(it.Ambiguities, ", ") + "."
	}
	return "I didn't quite catch that. Could you rephrase?"
}

// failure surfaces the typed reason for a lifecycle failure rather
// than a generic error string.
func failure(err error) Outcome {
	var (
		ve *ledger.ValidationError
		nf *ledger.NotFoundError
		se *ledger.StateError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &se) {
		return Outcome{Message: err.Error()}
	}
	return Outcome{Message: "operation failed: " + err.Error()}
}

func counterpartyOf(userID int64, c *models.Check) *int64 {
	if c == nil {
		return nil
	}
	if c.IssuerID == userID {
		return &c.PayeeID
	}
	return &c.IssuerID
}
