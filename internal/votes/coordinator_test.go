package votes

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/models"
	"github.com/rentme-app/rentme/backend/internal/realtime"
	"github.com/rentme-app/rentme/backend/internal/testutil"
)

// recordingNotifier captures broadcast events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []any
}

func (n *recordingNotifier) Broadcast(event any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) all() []any {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]any, len(n.events))
	copy(out, n.events)
	return out
}

func voteRowCount(t *testing.T, db *gorm.DB, memeID int, userID string) int {
	t.Helper()
	var count int64
	err := db.Model(&models.MemeVote{}).
		Where("meme_id = ? AND user_id = ?", memeID, userID).
		Count(&count).Error
	require.NoError(t, err)
	return int(count)
}

func storedCounts(t *testing.T, db *gorm.DB, memeID int) (int, int) {
	t.Helper()
	var meme models.Meme
	require.NoError(t, db.First(&meme, memeID).Error)
	return meme.Upvotes, meme.Downvotes
}

func TestCastVoteValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "validation", 0, 0)

	t.Run("rejects invalid direction", func(t *testing.T) {
		_, _, err := coordinator.CastVote(meme.ID, "u1", "sideways")
		assert.ErrorIs(t, err, ErrInvalidVoteType)
	})

	t.Run("rejects empty direction", func(t *testing.T) {
		_, _, err := coordinator.CastVote(meme.ID, "u1", "")
		assert.ErrorIs(t, err, ErrInvalidVoteType)
	})

	t.Run("rejects missing meme", func(t *testing.T) {
		_, _, err := coordinator.CastVote(999999, "u1", models.VoteUp)
		assert.ErrorIs(t, err, ErrMemeNotFound)
	})

	t.Run("invalid requests leave no rows behind", func(t *testing.T) {
		assert.Equal(t, 0, voteRowCount(t, db, meme.ID, "u1"))
	})
}

// The worked example: meme at 3/1, user with no prior vote votes up, up
// again (retract), then down.
func TestCastVoteScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "scenario", 3, 1)

	up, down, err := coordinator.CastVote(meme.ID, "user-u", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 4, up)
	assert.Equal(t, 1, down)

	up, down, err = coordinator.CastVote(meme.ID, "user-u", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 3, up)
	assert.Equal(t, 1, down)

	up, down, err = coordinator.CastVote(meme.ID, "user-u", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 3, up)
	assert.Equal(t, 2, down)

	// Stored counters match the returned pair
	storedUp, storedDown := storedCounts(t, db, meme.ID)
	assert.Equal(t, 3, storedUp)
	assert.Equal(t, 2, storedDown)
}

func TestSameDirectionTwiceIsIdempotentPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "toggle", 5, 2)

	for _, direction := range []string{models.VoteUp, models.VoteDown} {
		t.Run(direction, func(t *testing.T) {
			_, _, err := coordinator.CastVote(meme.ID, "toggler", direction)
			require.NoError(t, err)
			up, down, err := coordinator.CastVote(meme.ID, "toggler", direction)
			require.NoError(t, err)

			// Back to the pre-vote counters
			assert.Equal(t, 5, up)
			assert.Equal(t, 2, down)
			assert.Equal(t, 0, voteRowCount(t, db, meme.ID, "toggler"))
		})
	}
}

func TestFlipSwingsScoreByTwo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "flip", 3, 3)

	up, down, err := coordinator.CastVote(meme.ID, "flipper", models.VoteUp)
	require.NoError(t, err)
	scoreBefore := up - down
	require.Equal(t, 1, scoreBefore)

	up, down, err = coordinator.CastVote(meme.ID, "flipper", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, scoreBefore-2, up-down)

	// Exactly one live row for the pair, pointing down
	assert.Equal(t, 1, voteRowCount(t, db, meme.ID, "flipper"))
	var vote models.MemeVote
	require.NoError(t, db.Where("meme_id = ? AND user_id = ?", meme.ID, "flipper").First(&vote).Error)
	assert.Equal(t, models.VoteDown, vote.VoteType)
}

func TestAtMostOneVoteRowPerPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "one-row", 0, 0)

	sequence := []string{
		models.VoteUp, models.VoteDown, models.VoteDown,
		models.VoteUp, models.VoteUp, models.VoteDown,
	}
	for _, direction := range sequence {
		_, _, err := coordinator.CastVote(meme.ID, "sequencer", direction)
		require.NoError(t, err)

		rows := voteRowCount(t, db, meme.ID, "sequencer")
		assert.LessOrEqual(t, rows, 1, "after any prefix the pair has 0 or 1 rows")

		up, down := storedCounts(t, db, meme.ID)
		assert.GreaterOrEqual(t, up, 0)
		assert.GreaterOrEqual(t, down, 0)
	}
}

func TestCountersNeverDivergeFromRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "ground-truth", 2, 2)

	users := []string{"a", "b", "c"}
	directions := []string{models.VoteUp, models.VoteDown, models.VoteUp, models.VoteUp}
	for _, user := range users {
		for _, direction := range directions {
			_, _, err := coordinator.CastVote(meme.ID, user, direction)
			require.NoError(t, err)
		}
	}

	var upRows, downRows int64
	require.NoError(t, db.Model(&models.MemeVote{}).
		Where("meme_id = ? AND vote_type = ?", meme.ID, models.VoteUp).Count(&upRows).Error)
	require.NoError(t, db.Model(&models.MemeVote{}).
		Where("meme_id = ? AND vote_type = ?", meme.ID, models.VoteDown).Count(&downRows).Error)

	up, down := storedCounts(t, db, meme.ID)
	assert.Equal(t, int(upRows), up)
	assert.Equal(t, int(downRows), down)
}

// N distinct users vote up concurrently, once each; the final count must be
// exactly N no matter how the transactions interleave.
func TestConcurrentUpvotesFromDistinctUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "concurrent", 0, 0)

	const numVoters = 16
	var wg sync.WaitGroup
	errs := make(chan error, numVoters)

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := coordinator.CastVote(meme.ID, fmt.Sprintf("voter-%d", i), models.VoteUp)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	up, down := storedCounts(t, db, meme.ID)
	assert.Equal(t, numVoters, up)
	assert.Equal(t, 0, down)

	var rows int64
	require.NoError(t, db.Model(&models.MemeVote{}).Where("meme_id = ?", meme.ID).Count(&rows).Error)
	assert.Equal(t, int64(numVoters), rows)
}

// One user hammering the same meme concurrently must still end with 0 or 1
// rows and non-negative counters.
func TestConcurrentTogglesBySameUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coordinator := NewCoordinator(db, nil)
	meme := testutil.CreateTestMeme(t, db, "hammer", 0, 0)

	const attempts = 10
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Serialization happens on the meme row lock, so each call
			// either creates or retracts; either way invariants hold.
			_, _, _ = coordinator.CastVote(meme.ID, "hammerer", models.VoteUp)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, voteRowCount(t, db, meme.ID, "hammerer"), 1)

	up, down := storedCounts(t, db, meme.ID)
	assert.GreaterOrEqual(t, up, 0)
	assert.GreaterOrEqual(t, down, 0)
}

func TestCastVoteEmitsVoteUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifier := &recordingNotifier{}
	coordinator := NewCoordinator(db, notifier)
	meme := testutil.CreateTestMeme(t, db, "notify", 1, 0)

	_, _, err := coordinator.CastVote(meme.ID, "watcher", models.VoteUp)
	require.NoError(t, err)

	events := notifier.all()
	require.Len(t, events, 1)
	event, ok := events[0].(realtime.VoteUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, "vote_update", event.Type)
	assert.Equal(t, meme.ID, event.MemeID)
	assert.Equal(t, 2, event.Upvotes)
	assert.Equal(t, 0, event.Downvotes)
}

func TestFailedCastVoteEmitsNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifier := &recordingNotifier{}
	coordinator := NewCoordinator(db, notifier)

	_, _, err := coordinator.CastVote(424242, "watcher", models.VoteUp)
	require.ErrorIs(t, err, ErrMemeNotFound)
	assert.Empty(t, notifier.all())
}
