package services

import (
	"errors"
	"fmt"
	"log"

	"starzup-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletService owns the balance ledger: every balance change goes
// through here and writes exactly one transaction row in the same
// database transaction as the balance update.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// Deposit credits amount to the user's balance. The balance write is an
// atomic increment guarded by the row lock and the user's version
// counter, so two sessions depositing at once can never lose an update.
func (s *WalletService) Deposit(userID string, amount float64) (models.Transaction, error) {
	if amount < MinTransactionAmount {
		return models.Transaction{}, ErrInvalidAmount
	}

	var txn models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"balance": gorm.Expr("balance + ?", amount),
				"version": user.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: balance version conflict", ErrStoreUnavailable)
		}

		txn = models.Transaction{
			ID:     uuid.NewString(),
			UserID: user.ID,
			Kind:   models.TxDeposit,
			Amount: amount,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// Withdraw debits amount from the user's balance. The conditional
// `balance >= amount` in the UPDATE is the hard floor: even if the
// locked read raced something, the balance cannot go negative.
func (s *WalletService) Withdraw(userID string, amount float64) (models.Transaction, error) {
	if amount < MinTransactionAmount {
		return models.Transaction{}, ErrInvalidAmount
	}

	var txn models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if amount > user.Balance {
			return ErrInsufficientFunds
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ? AND balance >= ?", user.ID, user.Version, amount).
			Updates(map[string]interface{}{
				"balance": gorm.Expr("balance - ?", amount),
				"version": user.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: balance version conflict", ErrStoreUnavailable)
		}

		txn = models.Transaction{
			ID:     uuid.NewString(),
			UserID: user.ID,
			Kind:   models.TxWithdraw,
			Amount: -amount,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(userID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return txns, nil
}

// --- HTTP surface ---

type amountReq struct {
	Amount float64 `json:"amount"`
}

func (s *WalletService) DepositFunds(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var req amountReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	txn, err := s.Deposit(userID, req.Amount)
	if err != nil {
		return walletError(c, err)
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("ERROR refetching user %s after deposit: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "deposit applied but balance unavailable"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message":     "deposit applied",
		"balance":     user.Balance,
		"transaction": txn,
	})
}

func (s *WalletService) WithdrawFunds(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var req amountReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	txn, err := s.Withdraw(userID, req.Amount)
	if err != nil {
		return walletError(c, err)
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("ERROR refetching user %s after withdraw: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "withdrawal applied but balance unavailable"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message":     "withdrawal applied",
		"balance":     user.Balance,
		"transaction": txn,
	})
}

func (s *WalletService) ListTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	txns, err := s.Transactions(userID)
	if err != nil {
		return walletError(c, err)
	}
	return c.JSON(txns)
}

// walletError maps ledger and registration sentinels to HTTP statuses.
func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInsufficientFunds):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTournamentFull), errors.Is(err, ErrTournamentClosed):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrAlreadyRegistered):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTournamentNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		log.Printf("❌ store unavailable: %v", err)
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable, try again"})
	default:
		log.Printf("❌ unexpected wallet error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal error"})
	}
}
