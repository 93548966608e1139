package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/internal/strutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReputationScorer computes the next reputation score after a completed
// transaction. The update formula is an extension point; the shipped
// scorer leaves the score unchanged.
type ReputationScorer interface {
	Score(current float64, amount decimal.Decimal) float64
}

type staticScorer struct{}

func (staticScorer) Score(current float64, _ decimal.Decimal) float64 { return current }

// StaticScorer returns the no-op reputation strategy.
func StaticScorer() ReputationScorer { return staticScorer{} }

// Resolver normalizes counterparty names and maps them to entities,
// creating the entity (and its informational users row, sharing the
// same id) on first reference.
type Resolver struct {
	db     *gorm.DB
	scorer ReputationScorer
	log    *slog.Logger
}

func NewResolver(gdb *gorm.DB, scorer ReputationScorer, log *slog.Logger) *Resolver {
	if scorer == nil {
		scorer = staticScorer{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{db: gdb, scorer: scorer, log: log}
}

// withTx rebinds the resolver to a transaction handle so engine
// mutations and entity writes commit atomically.
func (r *Resolver) withTx(tx *gorm.DB) *Resolver {
	cp := *r
	cp.db = tx
	return &cp
}

// ResolveOrCreate canonicalizes name, looks it up case-insensitively
// and creates the entity with defaults when absent.
func (r *Resolver) ResolveOrCreate(ctx context.Context, name string) (models.Entity, error) {
	canonical := strutil.CanonicalName(name)
	if canonical == "" {
		return models.Entity{}, &ValidationError{Reason: "empty counterparty name"}
	}

	row, err := r.lookup(ctx, canonical)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entity{}, err
	}

	now := time.Now().Unix()
	row = models.Entity{
		CanonicalName:   canonical,
		EntityType:      models.EntityUser,
		ReputationScore: models.DefaultReputation,
		TotalVolume:     decimal.Zero,
		CreatedAt:       now,
	}
	createErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		user := models.User{ID: row.ID, Name: canonical, Balance: decimal.Zero, CreatedAt: now}
		return tx.Create(&user).Error
	})
	if createErr != nil {
		// Unique-name race: another session may have created it first.
		if existing, lookupErr := r.lookup(ctx, canonical); lookupErr == nil {
			return existing, nil
		}
		return models.Entity{}, createErr
	}
	return row, nil
}

// Lookup resolves an existing entity by name without creating one.
func (r *Resolver) Lookup(ctx context.Context, name string) (models.Entity, error) {
	canonical := strutil.CanonicalName(name)
	if canonical == "" {
		return models.Entity{}, &ValidationError{Reason: "empty counterparty name"}
	}
	row, err := r.lookup(ctx, canonical)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entity{}, &NotFoundError{Kind: "entity", Ref: canonical}
	}
	return row, err
}

func (r *Resolver) lookup(ctx context.Context, canonical string) (models.Entity, error) {
	var row models.Entity
	err := r.db.WithContext(ctx).
		Where("LOWER(canonical_name) = LOWER(?)", canonical).
		First(&row).Error
	return row, err
}

// RecordInteraction bumps the entity's transaction counters after a
// completed transaction and applies the reputation strategy. Call it on
// the same transaction handle as the check mutation it accounts for.
func (r *Resolver) RecordInteraction(ctx context.Context, entityID int64, amount decimal.Decimal) (models.Entity, error) {
	var row models.Entity
	err := r.db.WithContext(ctx).First(&row, entityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entity{}, &NotFoundError{Kind: "entity", Ref: itoa(entityID)}
	}
	if err != nil {
		return models.Entity{}, err
	}

	now := time.Now().Unix()
	row.TransactionCount++
	row.TotalVolume = row.TotalVolume.Add(amount)
	row.LastInteraction = &now
	row.ReputationScore = clampScore(r.scorer.Score(row.ReputationScore, amount))

	err = r.db.WithContext(ctx).Model(&models.Entity{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"transaction_count": row.TransactionCount,
			"total_volume":      row.TotalVolume,
			"last_interaction":  now,
			"reputation_score":  row.ReputationScore,
		}).Error
	if err != nil {
		return models.Entity{}, err
	}
	return row, nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
