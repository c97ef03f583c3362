package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/models"
)

type ContestHandler struct {
	db *gorm.DB
}

func NewContestHandler(db *gorm.DB) *ContestHandler {
	return &ContestHandler{db: db}
}

// GetActiveContests returns all contests still accepting entries
func (h *ContestHandler) GetActiveContests(c *gin.Context) {
	contests := []models.Contest{}
	if err := h.db.
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&contests).Error; err != nil {
		log.Printf("Error fetching active contests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active contests"})
		return
	}

	c.JSON(http.StatusOK, contests)
}

// CreateContest opens a new contest period
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var input models.CreateContestRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Period == "" || input.EndTime.Before(input.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contest needs a period and a valid time range"})
		return
	}

	contest := models.Contest{
		Period:    input.Period,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		IsActive:  true,
	}

	if err := h.db.Create(&contest).Error; err != nil {
		log.Printf("Error creating contest: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contest"})
		return
	}

	c.JSON(http.StatusCreated, contest)
}

// SetContestWinner records the winning meme and closes the contest
func (h *ContestHandler) SetContestWinner(c *gin.Context) {
	contestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest id"})
		return
	}

	var input struct {
		WinnerID int `json:"winnerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winnerId is required"})
		return
	}

	var contest models.Contest
	if err := h.db.First(&contest, contestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contest not found"})
		return
	}

	var winner models.Meme
	if err := h.db.First(&winner, input.WinnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
		return
	}

	if err := h.db.Model(&contest).Updates(map[string]any{
		"winner_id": winner.ID,
		"is_active": false,
	}).Error; err != nil {
		log.Printf("Error setting contest winner: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set contest winner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contest winner recorded"})
}
