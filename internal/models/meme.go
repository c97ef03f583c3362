package models

import "time"

type Meme struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"index;not null" json:"userId"`
	Title         string    `json:"title"`
	ImageURL      string    `gorm:"not null" json:"imageUrl"`
	AssetType     string    `json:"assetType"` // yacht, jet, lambo, marriage, mansion, misc, custom
	Upvotes       int       `gorm:"default:0" json:"upvotes"`
	Downvotes     int       `gorm:"default:0" json:"downvotes"`
	ContestPeriod string    `gorm:"index;default:'daily'" json:"contestPeriod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Score is the feed ranking key.
func (m Meme) Score() int {
	return m.Upvotes - m.Downvotes
}
