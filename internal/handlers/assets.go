package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/middleware"
	"github.com/rentme-app/rentme/backend/internal/models"
)

type AssetHandler struct {
	db *gorm.DB
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{db: db}
}

// GetCustomAssets returns the caller's calculator assets, newest first
func (h *AssetHandler) GetCustomAssets(c *gin.Context) {
	assets := []models.CustomAsset{}
	if err := h.db.
		Where("user_id = ?", middleware.UserID(c)).
		Order("created_at desc").
		Find(&assets).Error; err != nil {
		log.Printf("Error fetching custom assets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch custom assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

// CreateCustomAsset adds a calculator asset for the caller
func (h *AssetHandler) CreateCustomAsset(c *gin.Context) {
	var input models.CreateCustomAssetRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name == "" || input.Emoji == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and emoji are required"})
		return
	}

	asset := models.CustomAsset{
		UserID:       middleware.UserID(c),
		Name:         input.Name,
		Emoji:        input.Emoji,
		RentPrice:    input.RentPrice,
		RentDuration: input.RentDuration,
		OwnPrice:     input.OwnPrice,
		OwnUpkeep:    input.OwnUpkeep,
		OwnDuration:  input.OwnDuration,
	}

	if err := h.db.Create(&asset).Error; err != nil {
		log.Printf("Error creating custom asset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create custom asset"})
		return
	}

	c.JSON(http.StatusCreated, asset)
}
