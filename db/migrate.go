package db

import (
	"fmt"

	"github.com/lumabank/chequer/db/models"
	"gorm.io/gorm"
)

func AutoMigrate(gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("nil gorm db")
	}
	return gdb.AutoMigrate(
		&models.Entity{},
		&models.User{},
		&models.Check{},
		&models.TransactionRecord{},
	)
}
