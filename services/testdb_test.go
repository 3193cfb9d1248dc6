package services

import (
	"os"
	"testing"
	"time"

	"starzup-platform/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and
// starts from clean tables. Tests that need the store are skipped when
// the variable is unset so the pure tests still run anywhere.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping store-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tournament{},
		&models.Registration{},
		&models.Transaction{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	if err := db.Exec("TRUNCATE users, tournaments, registrations, transactions CASCADE").Error; err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, balance float64) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         "Test Player",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Balance:      balance,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestTournament(t *testing.T, db *gorm.DB, fee float64, capacity int) models.Tournament {
	t.Helper()
	tournament := models.Tournament{
		ID:        uuid.NewString(),
		Name:      "Test Cup",
		Slug:      "test-cup-" + uuid.NewString()[:8],
		Game:      "cs2",
		StartTime: time.Now().Add(24 * time.Hour),
		Prize:     1000,
		EntryFee:  fee,
		Capacity:  capacity,
		Status:    models.TournamentOpen,
	}
	if err := db.Create(&tournament).Error; err != nil {
		t.Fatalf("Failed to create test tournament: %v", err)
	}
	return tournament
}
