package models

import "github.com/shopspring/decimal"

// User is the informational account row for a party. It shares its
// primary key with the entities row for the same party; the resolver
// creates both inside one transaction. Balance never gates a check
// operation (postdated model).
type User struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;type:text;not null"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric;not null"`
	CreatedAt int64           `gorm:"column:created_at;not null"`
}

func (User) TableName() string { return "users" }
