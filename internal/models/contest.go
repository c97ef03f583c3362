package models

import "time"

// Contest model
type Contest struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Period    string    `gorm:"not null" json:"period"` // hourly, daily, weekly, monthly
	StartTime time.Time `gorm:"not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	WinnerID  *int      `json:"winnerId,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Winner    *Meme     `gorm:"foreignKey:WinnerID" json:"winner,omitempty"`
}

type CreateContestRequest struct {
	Period    string    `json:"period"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}
