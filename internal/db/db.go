package db

import (
	"log"
	"os"
	"strings"

	"pulse/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "sqlite://pulse.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://pulse.db'")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "sqlite://") {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	} else {
		dialector = postgres.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		// The like toggle branches on gorm.ErrDuplicatedKey, so unique
		// violations must be translated on every driver.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Migrate runs AutoMigrate for all models. Split out of Init so tests can
// migrate their own in-memory database.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
}
