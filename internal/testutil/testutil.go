package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rentme-app/rentme/backend/internal/database"
	"github.com/rentme-app/rentme/backend/internal/models"
)

// SetupTestDB starts a throwaway Postgres container, runs migrations and
// seeds, and returns a connected gorm handle. The container is torn down
// when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rentme_test"),
		tcpostgres.WithUsername("rentme"),
		tcpostgres.WithPassword("rentme"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := database.SeedSystemUsers(db); err != nil {
		t.Fatalf("Failed to seed system users: %v", err)
	}

	return db
}

// CreateTestMeme inserts a meme with preset counters and matching vote rows
// so the cached totals agree with ground truth.
func CreateTestMeme(t *testing.T, db *gorm.DB, title string, upvotes, downvotes int) models.Meme {
	t.Helper()

	meme := models.Meme{
		UserID:        "admin",
		Title:         title,
		ImageURL:      "/uploads/test.jpg",
		AssetType:     "yacht",
		Upvotes:       upvotes,
		Downvotes:     downvotes,
		ContestPeriod: "daily",
	}
	if err := db.Create(&meme).Error; err != nil {
		t.Fatalf("Failed to create test meme: %v", err)
	}

	for i := 0; i < upvotes; i++ {
		AddTestVote(t, db, meme.ID, testVoterID("up", i), models.VoteUp)
	}
	for i := 0; i < downvotes; i++ {
		AddTestVote(t, db, meme.ID, testVoterID("down", i), models.VoteDown)
	}

	return meme
}

// AddTestVote inserts a raw vote row without touching the meme counters.
func AddTestVote(t *testing.T, db *gorm.DB, memeID int, userID, direction string) {
	t.Helper()

	vote := models.MemeVote{MemeID: memeID, UserID: userID, VoteType: direction}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

func testVoterID(direction string, i int) string {
	return "seed-" + direction + "-voter-" + strconv.Itoa(i)
}
