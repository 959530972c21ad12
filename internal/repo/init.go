package repo

import (
	"github.com/gr-satt/bordem/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.BalanceSnapshot{})
}
