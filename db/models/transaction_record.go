package models

import "github.com/shopspring/decimal"

type RecordStatus string

const (
	RecordSuccess RecordStatus = "SUCCESS"
	RecordFailure RecordStatus = "FAILURE"
)

// TransactionRecord is append-only: one row per processed utterance,
// written whether the operation succeeded or not.
type TransactionRecord struct {
	ID                  int64            `gorm:"column:id;primaryKey;autoIncrement"`
	UserID              int64            `gorm:"column:user_id;not null;index:idx_records_user_created,priority:1"`
	OperationType       string           `gorm:"column:operation_type;type:text;not null"`
	Status              RecordStatus     `gorm:"column:status;type:text;not null"`
	CounterpartyID      *int64           `gorm:"column:counterparty_id"`
	Amount              *decimal.Decimal `gorm:"column:amount;type:numeric"`
	ConversationContext string           `gorm:"column:conversation_context;type:text;not null"`
	IntentConfidence    float64          `gorm:"column:intent_confidence;not null"`
	CreatedAt           int64            `gorm:"column:created_at;not null;index:idx_records_user_created,priority:2"`
}

func (TransactionRecord) TableName() string { return "transaction_records" }
