package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rentme-app/rentme/backend/internal/database"
	"github.com/rentme-app/rentme/backend/internal/handlers"
	"github.com/rentme-app/rentme/backend/internal/middleware"
	"github.com/rentme-app/rentme/backend/internal/realtime"
)

type Server struct {
	db        database.Service
	hub       *realtime.Hub
	handler   *handlers.Handler
	uploadDir string
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// The hub lives for the whole server; every mutation fan-out goes
	// through it
	hub := realtime.NewHub()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), hub, uploadDir)

	// Create server instance
	newServer := &Server{
		db:        db,
		hub:       hub,
		handler:   handler,
		uploadDir: uploadDir,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded meme images
	r.Static("/uploads", s.uploadDir)

	// Realtime channel (server-push: new_meme, vote_update)
	r.GET("/ws", s.handler.WS.Connect)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.Identity())
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.GET("/auth/user", s.handler.Auth.GetUser)

		// Meme board (public; identity optional, guests can vote)
		api.GET("/memes", s.handler.Meme.GetMemes)
		api.POST("/memes", s.handler.Meme.CreateMeme)
		api.POST("/memes/:id/vote", s.handler.Meme.VoteMeme)
		api.POST("/seed-memes", s.handler.Meme.SeedMemes)

		// Calculator assets
		api.GET("/custom-assets", s.handler.Asset.GetCustomAssets)
		api.POST("/custom-assets", s.handler.Asset.CreateCustomAsset)

		// Ticker rates
		api.GET("/exchange-rates", s.handler.Rate.GetExchangeRates)

		// Contests
		api.GET("/contests/active", s.handler.Contest.GetActiveContests)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/contests", s.handler.Contest.CreateContest)
			protected.POST("/contests/:id/winner", s.handler.Contest.SetContestWinner)
		}
	}

	return r
}
