package models

import "github.com/shopspring/decimal"

// Wallet is the single cash balance backing all trades.
// There should only ever be one row in this table.
type Wallet struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Amount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"Amount"`
}
