package models

import "github.com/shopspring/decimal"

type CheckStatus string

const (
	CheckPending   CheckStatus = "PENDING"
	CheckAccepted  CheckStatus = "ACCEPTED"
	CheckDenied    CheckStatus = "DENIED"
	CheckForwarded CheckStatus = "FORWARDED"
)

// Terminal reports whether no further transition out of the status is
// legal. Everything except PENDING is terminal; a forwarded check is
// continued by its successor row, never reopened.
func (s CheckStatus) Terminal() bool { return s != CheckPending }

type Check struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	IssuerID     int64           `gorm:"column:issuer_id;not null;index:idx_checks_issuer"`
	PayeeID      int64           `gorm:"column:payee_id;not null;index:idx_checks_payee_status,priority:1"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	Status       CheckStatus     `gorm:"column:status;type:text;not null;index:idx_checks_payee_status,priority:2"`
	IssuedAt     int64           `gorm:"column:issued_at;not null"`
	MaturityDate int64           `gorm:"column:maturity_date;not null"`
}

func (Check) TableName() string { return "checks" }
