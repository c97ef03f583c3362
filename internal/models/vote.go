package models

import "time"

// Vote directions as they appear on the wire.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// MemeVote model - tracks individual user votes on memes.
// At most one live row per (meme, user) pair.
type MemeVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	MemeID    int       `gorm:"uniqueIndex:idx_meme_votes_meme_user;not null" json:"memeId"`
	UserID    string    `gorm:"uniqueIndex:idx_meme_votes_meme_user;not null" json:"userId"`
	VoteType  string    `gorm:"not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
}

type CastVoteRequest struct {
	VoteType string `json:"voteType"`
}
