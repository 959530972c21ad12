package entity

import (
	"time"
)

// BalanceSnapshot 钱包余额快照
type BalanceSnapshot struct {
	Id int64 `gorm:"primaryKey;autoIncrement"`
	// Balance 单位: XBT
	Balance   string
	Floor     string
	Breached  bool      `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
}
