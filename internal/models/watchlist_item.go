package models

// WatchlistItem is a favorited ticker. Membership is independent of the
// portfolio: a watched ticker need not be held and vice versa.
type WatchlistItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Ticker string `gorm:"uniqueIndex;not null" json:"Ticker"`
	Name   string `json:"Name"`
}
