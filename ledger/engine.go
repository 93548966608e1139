package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/lumabank/chequer/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultDaysToMaturity applies when the caller does not name a term.
const DefaultDaysToMaturity = 30

const secondsPerDay = 24 * 60 * 60

type Direction string

const (
	DirectionIssued   Direction = "ISSUED"
	DirectionIncoming Direction = "INCOMING"
	DirectionAll      Direction = "ALL"
)

// CheckRef names a check either by explicit id or by the counterparty
// on the other side of it. Exactly one field should be set; id wins
// when both are.
type CheckRef struct {
	ID     int64
	Issuer string
}

// Engine executes check lifecycle transitions. Every mutation runs
// inside a single record-store transaction (read status, validate,
// write) — that isolation is the only concurrency control, per the
// one-utterance-at-a-time processing model.
type Engine struct {
	db       *gorm.DB
	resolver *Resolver
	log      *slog.Logger
}

func NewEngine(gdb *gorm.DB, resolver *Resolver, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{db: gdb, resolver: resolver, log: log}
}

// Issue creates a PENDING check from issuerID to the named payee. No
// balance check: balances are informational in the postdated model.
func (e *Engine) Issue(ctx context.Context, issuerID int64, payeeName string, amount decimal.Decimal, daysToMaturity int) (models.Check, error) {
	if !amount.IsPositive() {
		return models.Check{}, &ValidationError{Reason: "amount must be positive"}
	}
	if daysToMaturity < 0 {
		return models.Check{}, &ValidationError{Reason: "days to maturity must not be negative"}
	}

	var out models.Check
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := e.resolver.withTx(tx)

		var issuer models.Entity
		if err := tx.First(&issuer, issuerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "entity", Ref: itoa(issuerID)}
			}
			return err
		}

		payee, err := res.ResolveOrCreate(ctx, payeeName)
		if err != nil {
			return err
		}
		if payee.ID == issuerID {
			return &ValidationError{Reason: "issuer and payee are the same entity"}
		}

		now := time.Now().Unix()
		out = models.Check{
			IssuerID:     issuerID,
			PayeeID:      payee.ID,
			Amount:       amount,
			Status:       models.CheckPending,
			IssuedAt:     now,
			MaturityDate: now + int64(daysToMaturity)*secondsPerDay,
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}
		if _, err := res.RecordInteraction(ctx, issuerID, amount); err != nil {
			return err
		}
		if _, err := res.RecordInteraction(ctx, payee.ID, amount); err != nil {
			return err
		}
		e.log.Debug("check issued", "check_id", out.ID, "issuer_id", issuerID, "payee_id", payee.ID)
		return nil
	})
	return out, err
}

// Accept marks a PENDING check addressed to payeeID as ACCEPTED.
func (e *Engine) Accept(ctx context.Context, payeeID int64, ref CheckRef) (models.Check, error) {
	return e.decide(ctx, payeeID, ref, models.CheckAccepted, "accept")
}

// Deny marks a PENDING check addressed to payeeID as DENIED.
func (e *Engine) Deny(ctx context.Context, payeeID int64, ref CheckRef) (models.Check, error) {
	return e.decide(ctx, payeeID, ref, models.CheckDenied, "deny")
}

func (e *Engine) decide(ctx context.Context, payeeID int64, ref CheckRef, target models.CheckStatus, op string) (models.Check, error) {
	var out models.Check
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := e.resolveRef(ctx, tx, payeeID, ref, models.CheckPending)
		if err != nil {
			return err
		}
		if c.Status != models.CheckPending {
			return &StateError{CheckID: c.ID, Status: c.Status, Op: op}
		}
		// Conditional write guards the accept/deny race: whoever loses
		// sees zero rows affected.
		res := tx.Model(&models.Check{}).
			Where("id = ? AND status = ?", c.ID, models.CheckPending).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateError{CheckID: c.ID, Status: c.Status, Op: op}
		}
		c.Status = target

		if target == models.CheckAccepted {
			r := e.resolver.withTx(tx)
			if _, err := r.RecordInteraction(ctx, c.IssuerID, c.Amount); err != nil {
				return err
			}
			if _, err := r.RecordInteraction(ctx, c.PayeeID, c.Amount); err != nil {
				return err
			}
		}
		out = c
		e.log.Debug("check decided", "check_id", c.ID, "status", string(target))
		return nil
	})
	return out, err
}

// Forward terminally marks an ACCEPTED check held by holderID as
// FORWARDED and creates its successor: a new PENDING check from the
// holder to the forward target with the same amount and maturity date.
func (e *Engine) Forward(ctx context.Context, holderID int64, ref CheckRef, newPayeeName string) (models.Check, models.Check, error) {
	var orig, succ models.Check
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := e.resolveRef(ctx, tx, holderID, ref, models.CheckAccepted)
		if err != nil {
			return err
		}
		if c.Status != models.CheckAccepted {
			return &StateError{CheckID: c.ID, Status: c.Status, Op: "forward"}
		}

		res := e.resolver.withTx(tx)
		payee, err := res.ResolveOrCreate(ctx, newPayeeName)
		if err != nil {
			return err
		}
		if payee.ID == holderID {
			return &ValidationError{Reason: "cannot forward a check to yourself"}
		}

		upd := tx.Model(&models.Check{}).
			Where("id = ? AND status = ?", c.ID, models.CheckAccepted).
			Update("status", models.CheckForwarded)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return &StateError{CheckID: c.ID, Status: c.Status, Op: "forward"}
		}
		c.Status = models.CheckForwarded

		now := time.Now().Unix()
		succ = models.Check{
			IssuerID:     holderID,
			PayeeID:      payee.ID,
			Amount:       c.Amount,
			Status:       models.CheckPending,
			IssuedAt:     now,
			MaturityDate: c.MaturityDate,
		}
		if err := tx.Create(&succ).Error; err != nil {
			return err
		}
		if _, err := res.RecordInteraction(ctx, holderID, c.Amount); err != nil {
			return err
		}
		if _, err := res.RecordInteraction(ctx, payee.ID, c.Amount); err != nil {
			return err
		}
		orig = c
		e.log.Debug("check forwarded", "check_id", c.ID, "successor_id", succ.ID)
		return nil
	})
	return orig, succ, err
}

// ListChecks is a pure read, newest first.
func (e *Engine) ListChecks(ctx context.Context, userID int64, direction Direction) ([]models.Check, error) {
	q := e.db.WithContext(ctx).Model(&models.Check{})
	switch direction {
	case DirectionIssued:
		q = q.Where("issuer_id = ?", userID)
	case DirectionIncoming:
		q = q.Where("payee_id = ?", userID)
	case DirectionAll, "":
		q = q.Where("issuer_id = ? OR payee_id = ?", userID, userID)
	default:
		return nil, &ValidationError{Reason: "unknown direction " + string(direction)}
	}
	var rows []models.Check
	if err := q.Order("issued_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Balance reads the informational balance for a user.
func (e *Engine) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var row models.User
	err := e.db.WithContext(ctx).First(&row, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, &NotFoundError{Kind: "user", Ref: itoa(userID)}
	}
	if err != nil {
		return decimal.Zero, err
	}
	return row.Balance, nil
}

// resolveRef locates the referenced check. By id: the check must be
// addressed to userID. By issuer name: the most recently issued check
// addressed to userID from that issuer, in wantStatus — when several
// match, newest wins (documented tie-break, not an error).
func (e *Engine) resolveRef(ctx context.Context, tx *gorm.DB, userID int64, ref CheckRef, wantStatus models.CheckStatus) (models.Check, error) {
	if ref.ID > 0 {
		var c models.Check
		err := tx.WithContext(ctx).First(&c, ref.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Check{}, &NotFoundError{Kind: "check", Ref: "#" + itoa(ref.ID)}
		}
		if err != nil {
			return models.Check{}, err
		}
		if c.PayeeID != userID {
			return models.Check{}, &NotFoundError{Kind: "check", Ref: "#" + itoa(ref.ID)}
		}
		return c, nil
	}

	if ref.Issuer != "" {
		issuer, err := e.resolver.withTx(tx).Lookup(ctx, ref.Issuer)
		if err != nil {
			return models.Check{}, err
		}
		var c models.Check
		err = tx.WithContext(ctx).
			Where("payee_id = ? AND issuer_id = ? AND status = ?", userID, issuer.ID, wantStatus).
			Order("issued_at DESC, id DESC").
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Check{}, &NotFoundError{Kind: "check", Ref: "from " + issuer.CanonicalName}
		}
		if err != nil {
			return models.Check{}, err
		}
		return c, nil
	}

	return models.Check{}, &ValidationError{Reason: "missing check reference"}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
