package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/feed"
	"github.com/rentme-app/rentme/backend/internal/middleware"
	"github.com/rentme-app/rentme/backend/internal/models"
	"github.com/rentme-app/rentme/backend/internal/realtime"
	"github.com/rentme-app/rentme/backend/internal/votes"
)

// 5MB upload cap, matching the frontend's limit.
const maxUploadBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type MemeHandler struct {
	db          *gorm.DB
	feed        *feed.Assembler
	coordinator *votes.Coordinator
	hub         *realtime.Hub
	uploadDir   string
}

func NewMemeHandler(db *gorm.DB, hub *realtime.Hub, uploadDir string) *MemeHandler {
	return &MemeHandler{
		db:          db,
		feed:        feed.NewAssembler(db),
		coordinator: votes.NewCoordinator(db, hub),
		hub:         hub,
		uploadDir:   uploadDir,
	}
}

// GetMemes returns the ranked feed, optionally filtered by contest period
func (h *MemeHandler) GetMemes(c *gin.Context) {
	limit := feed.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	memes, err := h.feed.ListMemes(limit, c.Query("contestPeriod"))
	if err != nil {
		if errors.Is(err, feed.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error fetching memes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch memes"})
		return
	}

	c.JSON(http.StatusOK, memes)
}

// CreateMeme stores an uploaded image and publishes the meme to the feed
// and to realtime listeners
func (h *MemeHandler) CreateMeme(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be 5MB or smaller"})
		return
	}

	imageURL, err := h.storeImage(file)
	if err != nil {
		if errors.Is(err, errNotAnImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
			return
		}
		log.Printf("Error storing upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	meme := models.Meme{
		UserID:        middleware.UserID(c),
		Title:         c.PostForm("title"),
		ImageURL:      imageURL,
		AssetType:     c.PostForm("assetType"),
		ContestPeriod: c.PostForm("contestPeriod"),
	}
	if meme.Title == "" {
		meme.Title = "Untitled Meme"
	}
	if meme.AssetType == "" {
		meme.AssetType = "yacht"
	}
	if meme.ContestPeriod == "" {
		meme.ContestPeriod = "daily"
	}

	if err := h.db.Create(&meme).Error; err != nil {
		log.Printf("Error creating meme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload meme"})
		return
	}

	// Fan out to realtime listeners; delivery is best effort and never fails
	// the upload.
	h.hub.Broadcast(realtime.NewMeme(meme))

	c.JSON(http.StatusCreated, meme)
}

var errNotAnImage = errors.New("not an image")

// storeImage sniffs the upload's content type, rejects non-images, and
// writes the file under the upload dir with a collision-free name.
func (h *MemeHandler) storeImage(file io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]

	ext, ok := imageExtensions[http.DetectContentType(head)]
	if !ok {
		return "", errNotAnImage
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	filename := fmt.Sprintf("meme_%s%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return "/uploads/" + filename, nil
}

// VoteMeme handles upvoting/downvoting a meme
func (h *MemeHandler) VoteMeme(c *gin.Context) {
	memeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meme id"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote type"})
		return
	}

	up, down, err := h.coordinator.CastVote(memeID, middleware.UserID(c), input.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrInvalidVoteType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote type"})
		case errors.Is(err, votes.ErrMemeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
		default:
			log.Printf("Error voting on meme %d: %v", memeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote on meme"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"upvotes":   up,
		"downvotes": down,
	})
}

// SeedMemes inserts the starter memes (admin convenience endpoint)
func (h *MemeHandler) SeedMemes(c *gin.Context) {
	starters := []models.Meme{
		{UserID: "admin", Title: "When You Could've Just $RENT", ImageURL: "/uploads/rent-meme-1.jpg", AssetType: "yacht", ContestPeriod: "2025-01"},
		{UserID: "admin", Title: "$RENT vs Own: The Math Doesn't Lie", ImageURL: "/uploads/rent-meme-2.jpg", AssetType: "mansion", ContestPeriod: "2025-01"},
		{UserID: "admin", Title: "Private Jet Owner vs $RENT Enjoyer", ImageURL: "/uploads/rent-meme-3.jpg", AssetType: "jet", ContestPeriod: "2025-01"},
		{UserID: "admin", Title: "Marriage: The Ultimate Ownership Trap", ImageURL: "/uploads/rent-meme-4.jpg", AssetType: "marriage", ContestPeriod: "2025-01"},
	}

	if err := h.db.Create(&starters).Error; err != nil {
		log.Printf("Error seeding memes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed memes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Starter memes created successfully!"})
}
