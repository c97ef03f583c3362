package feed

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/models"
)

// DefaultLimit is applied by callers when the client doesn't ask for one.
const DefaultLimit = 50

var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Assembler builds the ranked meme listing.
type Assembler struct {
	db *gorm.DB
}

func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{db: db}
}

// ListMemes returns up to limit memes ordered by net score (upvotes minus
// downvotes) descending. Ties are broken by ascending id so the ordering is
// stable across calls. An empty contestPeriod means all periods.
func (a *Assembler) ListMemes(limit int, contestPeriod string) ([]models.Meme, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := a.db.Model(&models.Meme{})
	if contestPeriod != "" {
		query = query.Where("contest_period = ?", contestPeriod)
	}

	memes := []models.Meme{}
	if err := query.
		Order("(upvotes - downvotes) DESC, id ASC").
		Limit(limit).
		Find(&memes).Error; err != nil {
		return nil, fmt.Errorf("listing memes: %w", err)
	}

	return memes, nil
}
