package services

import (
	"errors"
	"fmt"

	"starzup-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationService applies paid tournament registrations. The whole
// operation — roster append, balance debit, ledger entry — commits as
// one database transaction with both rows locked, so two registrants
// racing for the last slot serialize: one gets it, the other sees the
// roster full.
type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

// Register validates and applies the registration of user onto
// tournament. Validation order is fixed: funds, capacity, duplicate.
func (s *RegistrationService) Register(userID, tournamentID string) (models.Registration, error) {
	var reg models.Registration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		var tournament models.Tournament
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tournament, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		if tournament.Status != models.TournamentOpen {
			return ErrTournamentClosed
		}
		if user.Balance < tournament.EntryFee {
			return ErrInsufficientFunds
		}

		var count int64
		if err := tx.Model(&models.Registration{}).
			Where("tournament_id = ?", tournament.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if count >= int64(tournament.Capacity) {
			return ErrTournamentFull
		}

		var existing models.Registration
		err := tx.Where("tournament_id = ? AND user_id = ?", tournament.ID, user.ID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		reg = models.Registration{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			UserID:       user.ID,
			UserName:     user.Name,
			Slot:         int(count) + 1,
		}
		if err := tx.Create(&reg).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		// Debit keyed on the version read under lock. RowsAffected == 0
		// means a concurrent balance write slipped in; roll everything back.
		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ? AND balance >= ?", user.ID, user.Version, tournament.EntryFee).
			Updates(map[string]interface{}{
				"balance": gorm.Expr("balance - ?", tournament.EntryFee),
				"version": user.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: balance version conflict", ErrStoreUnavailable)
		}

		fee := models.Transaction{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			Kind:         models.TxTournamentFee,
			Amount:       -tournament.EntryFee,
			TournamentID: tournament.ID,
		}
		if err := tx.Create(&fee).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return models.Registration{}, err
	}
	return reg, nil
}

// --- HTTP surface ---

func (s *RegistrationService) RegisterForTournament(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tournamentID := c.Params("id")
	if tournamentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "tournament id required in URL"})
	}

	reg, err := s.Register(userID, tournamentID)
	if err != nil {
		return walletError(c, err)
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err == nil {
		return c.Status(201).JSON(fiber.Map{
			"message":      "registration confirmed",
			"registration": reg,
			"balance":      user.Balance,
		})
	}
	return c.Status(201).JSON(fiber.Map{
		"message":      "registration confirmed",
		"registration": reg,
	})
}

// GetRoster returns the ordered roster of a tournament.
func (s *RegistrationService) GetRoster(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	var regs []models.Registration
	if err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("slot ASC").
		Find(&regs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch roster"})
	}
	return c.JSON(regs)
}
