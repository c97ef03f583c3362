package votes

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentme-app/rentme/backend/internal/models"
	"github.com/rentme-app/rentme/backend/internal/realtime"
)

var (
	ErrInvalidVoteType = errors.New("vote type must be up or down")
	ErrMemeNotFound    = errors.New("meme not found")
)

// Notifier receives events after a vote commits. Satisfied by *realtime.Hub.
type Notifier interface {
	Broadcast(event any)
}

// Coordinator enforces the one-vote-per-user-per-meme rule and keeps the
// cached upvote/downvote counters equal to the live vote rows.
type Coordinator struct {
	db       *gorm.DB
	notifier Notifier
}

func NewCoordinator(db *gorm.DB, notifier Notifier) *Coordinator {
	return &Coordinator{db: db, notifier: notifier}
}

// CastVote applies one vote action for (memeID, userID):
//
//   - no prior vote: record it
//   - same direction as the prior vote: retract it (toggle off)
//   - opposite direction: replace it (2-point score swing)
//
// The whole read-modify-write runs in one transaction holding a row lock on
// the meme, and both counters are recomputed from the vote rows before
// commit, so the cached totals can never drift from the rows and never go
// negative. Returns the fresh counter pair and broadcasts a vote_update on
// success.
func (c *Coordinator) CastVote(memeID int, userID, direction string) (upvotes, downvotes int, err error) {
	if direction != models.VoteUp && direction != models.VoteDown {
		return 0, 0, ErrInvalidVoteType
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		var meme models.Meme
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&meme, memeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemeNotFound
			}
			return fmt.Errorf("loading meme %d: %w", memeID, err)
		}

		var existing models.MemeVote
		findErr := tx.Where("meme_id = ? AND user_id = ?", memeID, userID).First(&existing).Error

		switch {
		case findErr == nil && existing.VoteType == direction:
			// Toggle off
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("retracting vote: %w", err)
			}

		case findErr == nil:
			// Flip direction: old row out, new row in
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("removing old vote: %w", err)
			}
			vote := models.MemeVote{MemeID: memeID, UserID: userID, VoteType: direction}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("recording flipped vote: %w", err)
			}

		case errors.Is(findErr, gorm.ErrRecordNotFound):
			vote := models.MemeVote{MemeID: memeID, UserID: userID, VoteType: direction}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("recording vote: %w", err)
			}

		default:
			return fmt.Errorf("looking up existing vote: %w", findErr)
		}

		up, down, err := countVotes(tx, memeID)
		if err != nil {
			return err
		}

		if err := tx.Model(&meme).Updates(map[string]any{
			"upvotes":   up,
			"downvotes": down,
		}).Error; err != nil {
			return fmt.Errorf("updating counters: %w", err)
		}

		upvotes, downvotes = up, down
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if c.notifier != nil {
		c.notifier.Broadcast(realtime.VoteUpdate(memeID, upvotes, downvotes))
	}

	return upvotes, downvotes, nil
}

// countVotes tallies live vote rows per direction for a meme.
func countVotes(tx *gorm.DB, memeID int) (int, int, error) {
	var up, down int64
	if err := tx.Model(&models.MemeVote{}).
		Where("meme_id = ? AND vote_type = ?", memeID, models.VoteUp).
		Count(&up).Error; err != nil {
		return 0, 0, fmt.Errorf("counting upvotes: %w", err)
	}
	if err := tx.Model(&models.MemeVote{}).
		Where("meme_id = ? AND vote_type = ?", memeID, models.VoteDown).
		Count(&down).Error; err != nil {
		return 0, 0, fmt.Errorf("counting downvotes: %w", err)
	}
	return int(up), int(down), nil
}
