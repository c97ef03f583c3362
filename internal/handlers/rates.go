package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rentme-app/rentme/backend/internal/models"
)

type RateHandler struct {
	db *gorm.DB
}

func NewRateHandler(db *gorm.DB) *RateHandler {
	return &RateHandler{db: db}
}

// GetExchangeRates returns the cached fiat/crypto rate table for the ticker
func (h *RateHandler) GetExchangeRates(c *gin.Context) {
	rates := []models.ExchangeRate{}
	if err := h.db.Order("currency asc").Find(&rates).Error; err != nil {
		log.Printf("Error fetching exchange rates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange rates"})
		return
	}

	c.JSON(http.StatusOK, rates)
}
