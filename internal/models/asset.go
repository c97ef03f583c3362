package models

import "time"

// CustomAsset is a user-defined asset for the regret calculator.
// Durations are "days:hours:minutes" strings, as stored by the frontend.
type CustomAsset struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"index;not null" json:"userId"`
	Name         string    `gorm:"not null" json:"name"`
	Emoji        string    `gorm:"not null" json:"emoji"`
	RentPrice    float64   `gorm:"default:1000" json:"rentPrice"`
	RentDuration string    `gorm:"default:'1:0:0'" json:"rentDuration"`
	OwnPrice     float64   `gorm:"default:100000" json:"ownPrice"`
	OwnUpkeep    float64   `gorm:"default:10000" json:"ownUpkeep"`
	OwnDuration  string    `gorm:"default:'365:0:0'" json:"ownDuration"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateCustomAssetRequest struct {
	Name         string  `json:"name"`
	Emoji        string  `json:"emoji"`
	RentPrice    float64 `json:"rentPrice"`
	RentDuration string  `json:"rentDuration"`
	OwnPrice     float64 `json:"ownPrice"`
	OwnUpkeep    float64 `json:"ownUpkeep"`
	OwnDuration  string  `json:"ownDuration"`
}
