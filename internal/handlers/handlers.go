package handlers

import (
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/realtime"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Meme    *MemeHandler
	Asset   *AssetHandler
	Contest *ContestHandler
	Rate    *RateHandler
	WS      *WSHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, hub *realtime.Hub, uploadDir string) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db),
		Meme:    NewMemeHandler(db, hub, uploadDir),
		Asset:   NewAssetHandler(db),
		Contest: NewContestHandler(db),
		Rate:    NewRateHandler(db),
		WS:      NewWSHandler(hub),
	}
}
