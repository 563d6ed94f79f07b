package models

import "github.com/shopspring/decimal"

// Holding is a portfolio position in one ticker. Qty is always positive:
// a sell that empties the position deletes the row instead of keeping it
// at zero, so a ticker can be bought again later.
type Holding struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Ticker   string          `gorm:"uniqueIndex;not null" json:"Ticker"`
	Name     string          `json:"Name"`
	Qty      int64           `gorm:"not null" json:"Qty"`
	AvgPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"AvgPrice"`
}
