package models

import "time"

// ExchangeRate caches fiat and crypto rates relative to USD.
type ExchangeRate struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Currency    string    `gorm:"unique;not null" json:"currency"`
	Rate        float64   `gorm:"not null" json:"rate"`
	Symbol      string    `gorm:"not null" json:"symbol"`
	LastUpdated time.Time `json:"lastUpdated"`
}
