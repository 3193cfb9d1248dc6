package services

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"starzup-platform/models"

	"github.com/gofiber/fiber/v2"
)

func TestDeleteTournamentRemovesRoster(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db)
	regs := NewRegistrationService(db)

	tournament := createTestTournament(t, db, 10, 4)
	user := createTestUser(t, db, 100)
	if _, err := regs.Register(user.ID, tournament.ID); err != nil {
		t.Fatalf("Registration failed: %v", err)
	}

	app := fiber.New()
	app.Delete("/admin/tournaments/:id", svc.DeleteTournament)

	req := httptest.NewRequest("DELETE", "/admin/tournaments/"+tournament.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "tournament deleted") {
		t.Errorf("Expected JSON confirmation, got %s", body)
	}

	var rosterCount int64
	db.Model(&models.Registration{}).Where("tournament_id = ?", tournament.ID).Count(&rosterCount)
	if rosterCount != 0 {
		t.Errorf("Expected roster removed with the tournament, found %d entries", rosterCount)
	}

	// The fee stays on the ledger for reconciliation.
	var feeCount int64
	db.Model(&models.Transaction{}).
		Where("kind = ? AND tournament_id = ?", models.TxTournamentFee, tournament.ID).
		Count(&feeCount)
	if feeCount != 1 {
		t.Errorf("Expected fee entry preserved, found %d", feeCount)
	}
}

func TestDeleteTournamentNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTournamentService(db)

	app := fiber.New()
	app.Delete("/admin/tournaments/:id", svc.DeleteTournament)

	req := httptest.NewRequest("DELETE", "/admin/tournaments/no-such-id", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "tournament not found") {
		t.Errorf("Expected JSON error body, got %s", body)
	}
}
