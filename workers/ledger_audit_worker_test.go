package workers

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

func setupAuditDB(t *testing.T) *gorm.DB {
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

func createAuditUser(t *testing.T, db *gorm.DB, balance float64) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         "Audited Player",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Balance:      balance,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createAuditTxn(t *testing.T, db *gorm.DB, userID, kind string, amount float64, tournamentID string) {
	t.Helper()
	txn := models.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		TournamentID: tournamentID,
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
}

func TestCheckBalancesFlagsRealDrift(t *testing.T) {
	db := setupAuditDB(t)
	auditor := NewLedgerAuditor(db)

	// Stored balance 100, ledger says 40.
	user := createAuditUser(t, db, 100)
	createAuditTxn(t, db, user.ID, models.TxDeposit, 40, "")

	drifts, err := auditor.CheckBalances()
	if err != nil {
		t.Fatalf("CheckBalances failed: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("Expected one drift, got %d", len(drifts))
	}
	if drifts[0].UserID != user.ID || drifts[0].LedgerBalance != 40 {
		t.Errorf("Unexpected drift report: %+v", drifts[0])
	}
}

func TestCheckBalancesIgnoresFloatNoise(t *testing.T) {
	db := setupAuditDB(t)
	auditor := NewLedgerAuditor(db)

	// 0.1 + 0.2 summed as float64 is 0.30000000000000004; a stored
	// balance of 0.3 is not drift.
	user := createAuditUser(t, db, 0.3)
	createAuditTxn(t, db, user.ID, models.TxDeposit, 0.1, "")
	createAuditTxn(t, db, user.ID, models.TxDeposit, 0.2, "")

	drifts, err := auditor.CheckBalances()
	if err != nil {
		t.Fatalf("CheckBalances failed: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("Expected no drift for sub-cent noise, got %+v", drifts)
	}
}

func TestCheckOrphanCharges(t *testing.T) {
	db := setupAuditDB(t)
	auditor := NewLedgerAuditor(db)

	tournament := models.Tournament{
		ID:        uuid.NewString(),
		Name:      "Audit Cup",
		Slug:      "audit-cup-" + uuid.NewString()[:8],
		Game:      "cs2",
		StartTime: time.Now().Add(24 * time.Hour),
		Capacity:  8,
		Status:    models.TournamentOpen,
	}
	if err := db.Create(&tournament).Error; err != nil {
		t.Fatalf("Failed to create tournament: %v", err)
	}

	// A fee with no roster entry on a live tournament is an orphan.
	user := createAuditUser(t, db, 0)
	createAuditTxn(t, db, user.ID, models.TxTournamentFee, -10, tournament.ID)

	orphans, err := auditor.CheckOrphanCharges()
	if err != nil {
		t.Fatalf("CheckOrphanCharges failed: %v", err)
	}
	if len(orphans) != 1 || orphans[0].UserID != user.ID {
		t.Fatalf("Expected one orphan charge for %s, got %+v", user.ID, orphans)
	}

	// Once the tournament is gone the fee legitimately stays behind.
	if err := db.Delete(&models.Tournament{}, "id = ?", tournament.ID).Error; err != nil {
		t.Fatalf("Failed to delete tournament: %v", err)
	}
	orphans, err = auditor.CheckOrphanCharges()
	if err != nil {
		t.Fatalf("CheckOrphanCharges failed: %v", err)
	}
	if len(orphans) != 0 {
		t.Fatalf("Expected no orphans after tournament removal, got %+v", orphans)
	}
}
