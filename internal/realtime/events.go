package realtime

import "github.com/rentme-app/rentme/backend/internal/models"

// Server→client message shapes. The type field discriminates on the wire.

type NewMemeEvent struct {
	Type string      `json:"type"`
	Meme models.Meme `json:"meme"`
}

type VoteUpdateEvent struct {
	Type      string `json:"type"`
	MemeID    int    `json:"memeId"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

func NewMeme(meme models.Meme) NewMemeEvent {
	return NewMemeEvent{Type: "new_meme", Meme: meme}
}

func VoteUpdate(memeID, upvotes, downvotes int) VoteUpdateEvent {
	return VoteUpdateEvent{Type: "vote_update", MemeID: memeID, Upvotes: upvotes, Downvotes: downvotes}
}
