package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rentme-app/rentme/backend/internal/models"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db *gorm.DB
}

var (
	database   = os.Getenv("DB_NAME")
	password   = os.Getenv("DB_PASSWORD")
	username   = os.Getenv("DB_USER")
	port       = os.Getenv("DB_PORT")
	host       = os.Getenv("DB_HOST")
	dbInstance *service
)

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}

	// Construct connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		host, username, password, database, port, os.Getenv("DB_SSLMODE"),
	)

	// Configure GORM logger
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("✅ Database migrations completed")

	if err := SeedSystemUsers(db); err != nil {
		log.Fatalf("Failed to seed system users: %v", err)
	}

	if err := SeedExchangeRates(db); err != nil {
		log.Fatalf("Failed to seed exchange rates: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	dbInstance = &service{
		db: db,
	}

	return dbInstance
}

// Migrate creates/updates all application tables, including the unique
// (meme_id, user_id) index the vote coordinator relies on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Meme{},
		&models.MemeVote{},
		&models.Contest{},
		&models.CustomAsset{},
		&models.ExchangeRate{},
	)
}

// SeedSystemUsers creates the built-in identities that anonymous voting and
// admin seeding attribute records to.
func SeedSystemUsers(db *gorm.DB) error {
	users := []models.User{
		{ID: "guest", Email: "guest@rentme.local", FirstName: "Guest"},
		{ID: "admin", Email: "admin@rentme.local", FirstName: "Admin"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error
}

// SeedExchangeRates upserts the static fiat/crypto rate table. Rates are
// relative to USD; crypto rates are USD-per-unit inverses. Safe to call on
// every startup.
func SeedExchangeRates(db *gorm.DB) error {
	now := time.Now().UTC()
	rates := make([]models.ExchangeRate, 0, len(staticRates))
	for _, r := range staticRates {
		rates = append(rates, models.ExchangeRate{
			Currency:    r.Currency,
			Rate:        r.Rate,
			Symbol:      r.Symbol,
			LastUpdated: now,
		})
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "symbol", "last_updated"}),
	}).Create(&rates).Error
}

var staticRates = []models.ExchangeRate{
	// Major fiat currencies
	{Currency: "USD", Rate: 1, Symbol: "$"},
	{Currency: "EUR", Rate: 0.92, Symbol: "€"},
	{Currency: "GBP", Rate: 0.78, Symbol: "£"},
	{Currency: "JPY", Rate: 150, Symbol: "¥"},
	{Currency: "CAD", Rate: 1.37, Symbol: "C$"},
	{Currency: "AUD", Rate: 1.51, Symbol: "A$"},
	{Currency: "CHF", Rate: 0.87, Symbol: "CHF"},
	{Currency: "CNY", Rate: 7.09, Symbol: "¥"},
	{Currency: "INR", Rate: 83.5, Symbol: "₹"},
	{Currency: "BRL", Rate: 5.15, Symbol: "R$"},
	{Currency: "MXN", Rate: 16.8, Symbol: "MX$"},
	{Currency: "ZAR", Rate: 18.5, Symbol: "R"},
	{Currency: "SGD", Rate: 1.35, Symbol: "S$"},
	{Currency: "NZD", Rate: 1.64, Symbol: "NZ$"},
	{Currency: "KRW", Rate: 1370, Symbol: "₩"},
	{Currency: "RUB", Rate: 90, Symbol: "₽"},
	{Currency: "SEK", Rate: 10.5, Symbol: "kr"},
	{Currency: "NOK", Rate: 10.8, Symbol: "kr"},
	{Currency: "TRY", Rate: 32, Symbol: "₺"},
	{Currency: "HKD", Rate: 7.8, Symbol: "HK$"},

	// Major cryptocurrencies
	{Currency: "BTC", Rate: 0.000023, Symbol: "₿"},
	{Currency: "ETH", Rate: 0.000387, Symbol: "Ξ"},
	{Currency: "SOL", Rate: 0.01014, Symbol: "◎"},
	{Currency: "BNB", Rate: 0.0024, Symbol: "BNB"},
	{Currency: "ADA", Rate: 2.5, Symbol: "ADA"},
	{Currency: "DOT", Rate: 0.16, Symbol: "DOT"},
	{Currency: "MATIC", Rate: 1.2, Symbol: "MATIC"},
	{Currency: "AVAX", Rate: 0.03, Symbol: "AVAX"},
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Get underlying SQL DB
	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	// Ping the database
	err = sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	// Database is up
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// Get database stats
	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	log.Printf("Disconnected from database: %s", database)
	return sqlDB.Close()
}
