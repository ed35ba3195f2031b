package Models

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	var err error
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dbPath = "database.db"
		}
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate runs schema migration in dependency order. Split out from Connect
// so tests can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	// 1. Base tables with no dependencies
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Customer{},
		&Setting{},
	); err != nil {
		return err
	}

	// 2. Tables referencing customers/users
	if err := db.AutoMigrate(&Job{}); err != nil {
		return err
	}

	// 3. Tables with child rows
	return db.AutoMigrate(
		&VehicleInspection{},
		&InspectionPhoto{},
		&Invoice{},
		&InvoiceItem{},
	)
}
