package models

import "github.com/shopspring/decimal"

type EntityType string

const (
	EntityUser     EntityType = "USER"
	EntityMerchant EntityType = "MERCHANT"
	EntityBank     EntityType = "BANK"
	EntityUnknown  EntityType = "UNKNOWN"
)

// DefaultReputation is the neutral score assigned to a counterparty on
// first contact. The update rule is a pluggable strategy; see
// ledger.ReputationScorer.
const DefaultReputation = 50.0

type Entity struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CanonicalName    string          `gorm:"column:canonical_name;type:text;not null;uniqueIndex:uniq_entities_canonical_name"`
	EntityType       EntityType      `gorm:"column:entity_type;type:text;not null"`
	ReputationScore  float64         `gorm:"column:reputation_score;not null"`
	TransactionCount int64           `gorm:"column:transaction_count;not null"`
	TotalVolume      decimal.Decimal `gorm:"column:total_volume;type:numeric;not null"`
	LastInteraction  *int64          `gorm:"column:last_interaction"`
	CreatedAt        int64           `gorm:"column:created_at;not null"`
}

func (Entity) TableName() string { return "entities" }
